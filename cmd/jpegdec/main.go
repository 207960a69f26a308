package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"lukechampine.com/flagg"

	jpegdecoder "github.com/RecorderZero/JPEG-decoder"
)

func main() {
	log.SetFlags(0)

	flagg.Root.Usage = flagg.SimpleUsage(flagg.Root, `Usage: jpegdec [command] [args]

Commands:
    jpegdec decode in.jpg [out.ppm]
    jpegdec info in.jpg
`)
	var catmullRom bool
	cmdDecode := flagg.New("decode", `Usage:
    jpegdec decode [-catmull-rom] in.jpg [out.ppm]
      Decode in.jpg (or stdin) to a binary PPM, written to out.ppm (or stdout)
`)
	cmdDecode.BoolVar(&catmullRom, "catmull-rom", false, "use Catmull-Rom chroma upsampling instead of nearest-neighbor")

	cmdInfo := flagg.New("info", `Usage:
    jpegdec info in.jpg
      Print the decoded image's dimensions and component count
`)

	cmd := flagg.Parse(flagg.Tree{
		Cmd: flagg.Root,
		Sub: []flagg.Tree{
			{Cmd: cmdDecode},
			{Cmd: cmdInfo},
		},
	})

	switch cmd {
	case cmdDecode:
		var in io.Reader
		var out io.Writer

		switch cmd.NArg() {
		case 0:
			in, out = os.Stdin, os.Stdout

		case 1:
			fin, err := os.Open(cmd.Arg(0))
			if err != nil {
				log.Fatalln("could not open input file:", err)
			}
			defer fin.Close()
			in, out = fin, os.Stdout

		case 2:
			fin, err := os.Open(cmd.Arg(0))
			if err != nil {
				log.Fatalln("could not open input file:", err)
			}
			defer fin.Close()
			fout, err := os.Create(cmd.Arg(1))
			if err != nil {
				log.Fatalln("could not create output file:", err)
			}
			defer fout.Close()
			in, out = fin, fout

		default:
			cmdDecode.Usage()
			return
		}

		data, err := io.ReadAll(in)
		if err != nil {
			log.Fatalln("could not read input:", err)
		}

		opts := jpegdecoder.Options{}
		if catmullRom {
			opts.UpsampleMethod = jpegdecoder.CatmullRom
		}

		img, err := jpegdecoder.Decode(data, opts)
		if err != nil {
			log.Fatalln("could not decode jpeg:", err)
		}

		if _, err := out.Write(jpegdecoder.WritePPM(img)); err != nil {
			log.Fatalln("could not write output file:", err)
		}

	case cmdInfo:
		if cmd.NArg() != 1 {
			cmdInfo.Usage()
			return
		}

		fin, err := os.Open(cmd.Arg(0))
		if err != nil {
			log.Fatalln("could not open input file:", err)
		}
		defer fin.Close()

		data, err := io.ReadAll(fin)
		if err != nil {
			log.Fatalln("could not read input file:", err)
		}

		img, err := jpegdecoder.Decode(data)
		if err != nil {
			log.Fatalln("could not decode jpeg:", err)
		}

		fmt.Printf("%dx%d, %d component(s)\n", img.Width, img.Height, img.NumComponents)

	default:
		flagg.Root.Usage()
	}
}
