package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rxi/fe"
)

const poolSize = 1 << 16

func main() {
	flag.Parse()

	ctx, err := fe.Open(poolSize)
	if err != nil {
		log.Fatalf("can't open interpreter: %s", err)
	}

	if path := flag.Arg(0); path != "" {
		runFile(ctx, path)
		return
	}
	runREPL(ctx)
}

func runFile(ctx *fe.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("can't open input file: %s", err)
	}
	defer f.Close()

	pull := readerPull(bufio.NewReader(f))
	for {
		form, err := ctx.Read(pull)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		if form == nil {
			return
		}
		if _, err := ctx.Eval(form); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
	}
}

func runREPL(ctx *fe.Context) {
	in := bufio.NewReader(os.Stdin)
	pull := readerPull(in)

	for {
		fmt.Print("> ")
		form, err := ctx.Read(pull)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		if form == nil {
			return
		}

		v, err := ctx.Eval(form)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		if err := ctx.Write(v, os.Stdout, true); err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		fmt.Println()
	}
}

// readerPull adapts a bufio.Reader to fe.PullFunc, returning a zero byte
// once the underlying reader is exhausted.
func readerPull(r *bufio.Reader) fe.PullFunc {
	return func() byte {
		b, err := r.ReadByte()
		if err != nil {
			return 0
		}
		return b
	}
}
