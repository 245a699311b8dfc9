package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/cmd"
	"github.com/vsariola/ddsynth/render"
	"github.com/vsariola/ddsynth/spectrum"
	"github.com/vsariola/ddsynth/version"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ddsynth-analyze: ")
	expected := flag.Float64("f", 0, "Expected dominant frequency in Hz; when given, the closest peak is verified against it.")
	tolerance := flag.Float64("t", spectrum.DefaultTolerance, "Relative tolerance for the frequency verification.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash())
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	retval := 0
	for _, filename := range flag.Args() {
		ok, err := process(filename, *expected, *tolerance)
		if err != nil {
			log.Printf("could not process file %v: %v", filename, err)
			retval = 1
			continue
		}
		if !ok {
			retval = 2
		}
	}
	os.Exit(retval)
}

func process(filename string, expected, tolerance float64) (bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buffer, err := ddsynth.ReadWav(f)
	if err != nil {
		return false, err
	}
	level := render.MeasureLevel(buffer)
	rep := cmd.Report{
		Name:     filename,
		Samples:  len(buffer),
		Seconds:  buffer.Seconds(),
		Spectrum: spectrum.Analyze(buffer),
		Level:    &level,
	}
	ok := true
	if expected > 0 {
		v, err := spectrum.Verify(rep.Spectrum, expected, tolerance)
		if err != nil {
			return false, err
		}
		rep.Verification = &v
		ok = v.Accurate
	}
	return ok, cmd.PrintReport(os.Stdout, rep)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "ddsynth command line utility for analyzing the spectrum of .wav files.\nUsage: %s [flags] file.wav ...\n", os.Args[0])
	flag.PrintDefaults()
}
