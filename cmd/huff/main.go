// Command huff compresses and decompresses text files with block-based
// Huffman coding.
//
// Usage:
//
//	huff -f input.txt -c [-b 2] [-o outdir]      compress into <name>.huff
//	huff -f input.huff -d [-b 2] [-o outdir]     decompress
//
// The block size used for decompression must match the one the file was
// compressed with, because it determines the width of the header's symbol
// length field.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GerardoTravesedo/data-compression/huffman"
	"github.com/GerardoTravesedo/data-compression/logger"
	"github.com/GerardoTravesedo/data-compression/paths"
)

func main() {
	var (
		file       = flag.String("f", "", "file to compress / decompress")
		compress   = flag.Bool("c", false, "compress the file")
		decompress = flag.Bool("d", false, "decompress the file")
		blockSize  = flag.Int("b", 2, "number of input characters encoded together as one symbol")
		output     = flag.String("o", ".", "output directory, or an explicit output file path")
		verbose    = flag.Bool("v", false, "log intermediate state (frequency table, code map)")
	)
	flag.Parse()

	if *file == "" {
		fail("-f is required")
	}
	if *compress == *decompress {
		fail("exactly one of -c or -d is required")
	}
	if *blockSize < 1 {
		fail(fmt.Sprintf("block size must be positive, have %d", *blockSize))
	}

	log := logger.New(*verbose)
	headerBits := huffman.HeaderLengthBits(*blockSize)

	var err error
	if *compress {
		var out string
		if out, err = paths.CompressedOutputPath(*file, *output); err == nil {
			log.Infof("compressing %s into %s", *file, out)
			err = huffman.Encode(*file, out, *blockSize, headerBits, huffman.WithLogger(log))
		}
	} else {
		var out string
		if out, err = paths.DecompressedOutputPath(*file, *output); err == nil {
			log.Infof("decompressing %s into %s", *file, out)
			err = huffman.Decode(*file, out, headerBits, huffman.WithLogger(log))
		}
	}
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	flag.Usage()
	os.Exit(2)
}
