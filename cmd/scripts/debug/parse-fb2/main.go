package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/fb2catalog/pkg/archive"
	"github.com/shishobooks/fb2catalog/pkg/fb2"
)

func main() {
	log := logger.New()

	var opts struct {
		Entry  string `short:"e" long:"entry" description:"Name of the book inside a ZIP archive"`
		Limit  int    `short:"l" long:"limit" default:"1048576" description:"Maximum number of header bytes to read"`
		Header bool   `long:"header" description:"Also print the normalized header XML"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		if flags.WroteHelp(err) {
			return
		}
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-fb2 [--entry NAME] <path/to/file.fb2|archive.zip>")
		os.Exit(1)
	}

	r, closer, err := open(args[0], opts.Entry)
	if err != nil {
		log.Err(err).Fatal("open error")
	}
	defer closer()

	header, err := fb2.LoadHeader(r, opts.Limit)
	if err != nil {
		log.Err(err).Fatal("header error")
	}
	text, err := fb2.Normalize(header)
	if err != nil {
		log.Err(err).Fatal("normalize error")
	}
	if opts.Header {
		fmt.Println(text)
	}

	d, err := fb2.Parse(text)
	if err != nil {
		log.Err(err).Fatal("parse error")
	}

	fmt.Printf("Encoding: %s\nTitle: %s\nLanguage: %s\nGenres: %v\n",
		fb2.DetectEncoding(header), d.TitleOr("<none>"), d.Language(), d.Genres)
	for _, a := range d.Authors {
		fmt.Printf("Author: %+v\n", a)
	}
	for _, a := range d.Translators {
		fmt.Printf("Translator: %+v\n", a)
	}
}

func open(path, entry string) (io.Reader, func(), error) {
	if entry == "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}

	arch, err := archive.Open(path)
	if err != nil {
		return nil, nil, err
	}
	e, err := arch.Lookup(entry)
	if err != nil {
		arch.Close()
		return nil, nil, err
	}
	rc, err := e.Open()
	if err != nil {
		arch.Close()
		return nil, nil, err
	}
	return rc, func() {
		rc.Close()
		arch.Close()
	}, nil
}
