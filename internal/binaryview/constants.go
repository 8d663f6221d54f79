package binaryview

const (
	// default number of bytes shown per line in hex dumps.
	HexDumpBytesPerLine = 16
	hexDigitsUpper      = "0123456789ABCDEF"
	hexDigitsLower      = "0123456789abcdef"
	asciiPrintableMin   = 0x20
	asciiPrintableMax   = 0x7E
)
