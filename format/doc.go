// Package format defines the container and compression types handled by clpir
// and the magic-number table used to tell them apart.
//
// Detection looks only at the first four bytes:
//
//	switch format.Detect(data) {
//	case format.FileTypeZST:
//	    // decompress, then call Detect again: a CLP IR stream is
//	    // only recognizable after Zstd decompression
//	case format.FileTypeCLPIR:
//	    // decode directly
//	}
package format
