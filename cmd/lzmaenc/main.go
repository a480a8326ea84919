// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lzmaenc compresses standard input to a raw LZMA stream on
// standard output, the way the teacher's lzmago wraps the xz package
// for the command line -- but thin, since this module only contains
// the core and exposes no container format.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ulikunitz/lzmacore/lzma"
)

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: lzmaenc [OPTION]...
Compress standard input to a raw LZMA stream on standard output.

  -level N       compression level 0-3 (default 2)
  -end-marker    write an end-of-stream marker instead of relying on
                 the recorded uncompressed size
  -d             decode instead of encode, verifying against the
                 end-marker convention given by -end-marker
  -h             show this help
`)
}

func main() {
	log.SetPrefix("lzmaenc: ")
	log.SetFlags(0)

	level := flag.Int("level", 2, "compression level 0-3")
	endMarker := flag.Bool("end-marker", false, "write an end-of-stream marker")
	decode := flag.Bool("d", false, "decode instead of encode")
	help := flag.Bool("h", false, "show this help")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if *help {
		usage(os.Stdout)
		return
	}

	if *decode {
		runDecode(*endMarker)
		return
	}
	runEncode(*level, *endMarker)
}

func runEncode(level int, endMarker bool) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("reading stdin: %s", err)
	}

	cfg, seqCfg := lzma.Preset(level)
	cfg.EndMarker = endMarker
	cfg.HeaderHasSize = !endMarker

	out := bufio.NewWriter(os.Stdout)
	enc, err := lzma.NewEncoder(out, cfg, int64(len(data)))
	if err != nil {
		log.Fatalf("creating encoder: %s", err)
	}

	seq, err := seqCfg.NewSequencer()
	if err != nil {
		log.Fatalf("creating sequencer: %s", err)
	}
	p := lzma.NewProducer(enc, seq)
	if _, err := p.Write(data); err != nil {
		log.Fatalf("compressing: %s", err)
	}
	if err := p.Flush(); err != nil {
		log.Fatalf("flushing: %s", err)
	}
	if err := enc.Close(); err != nil {
		log.Fatalf("closing encoder: %s", err)
	}
	if err := out.Flush(); err != nil {
		log.Fatalf("flushing output: %s", err)
	}
}

// runDecode drives the package's verification decoder over stdin, the
// way -d lets lzmago round-trip a stream it just produced. hasSize is
// the inverse of the -end-marker convention runEncode uses to write
// the header: a stream with an end marker carries no recorded size.
func runDecode(endMarker bool) {
	dec, err := lzma.NewDecoder(os.Stdin, !endMarker, 0)
	if err != nil {
		log.Fatalf("creating decoder: %s", err)
	}
	data, err := dec.DecodeAll()
	if err != nil {
		log.Fatalf("decoding: %s", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		log.Fatalf("writing stdout: %s", err)
	}
}
