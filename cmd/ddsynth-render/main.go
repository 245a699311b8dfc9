package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/cmd"
	"github.com/vsariola/ddsynth/midifile"
	"github.com/vsariola/ddsynth/oto"
	"github.com/vsariola/ddsynth/render"
	"github.com/vsariola/ddsynth/synth"
	"github.com/vsariola/ddsynth/version"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ddsynth-render: ")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the current working directory.")
	play := flag.Bool("p", false, "Play the input scores.")
	rawOut := flag.Bool("r", false, "Output the rendered score as a headerless 16-bit PCM .raw file.")
	wavOut := flag.Bool("w", false, "Output the rendered score as a .wav file (default behaviour when no other output is defined).")
	analyze := flag.Bool("a", false, "Print the spectral peaks of the first 2048 samples.")
	oscName := flag.String("osc", "fixed", "Oscillator backend: fixed (256-entry sine table) or float.")
	mixName := flag.String("mix", "peak", "Normalization: peak (global peak normalization) or average (per-tick average).")
	maxVoices := flag.Int("voices", 0, "Size of the fixed voice pool; 0 means unbounded.")
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
	if !*rawOut && !*play && !*analyze {
		*wavOut = true
	}
	osc, err := synth.OscillatorByName(*oscName)
	if err != nil {
		log.Fatal(err)
	}
	mixer, err := synth.MixerByName(*mixName)
	if err != nil {
		log.Fatal(err)
	}
	files, err := inputFiles(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	scores := make([]ddsynth.Score, len(files))
	for i, f := range files {
		if scores[i], err = readScore(f); err != nil {
			log.Fatalf("could not read %v: %v", f, err)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	results, err := render.All(ctx, scores, render.Options{Oscillator: osc, Mixer: mixer, MaxVoices: *maxVoices})
	stop()
	if err != nil {
		log.Fatalf("rendering failed: %v", err)
	}
	var audioContext ddsynth.AudioContext
	if *play {
		if audioContext, err = oto.NewContext(); err != nil {
			log.Fatalf("could not acquire oto AudioContext: %v", err)
		}
	}
	retval := 0
	for i, r := range results {
		if err := output(files[i], r, *directory, *stdout, *wavOut, *rawOut); err != nil {
			log.Printf("could not output %v: %v", files[i], err)
			retval = 1
			continue
		}
		if *analyze {
			rep := cmd.Report{Name: files[i], Samples: r.SampleCount(), Seconds: r.Duration(), Spectrum: r.Spectrum, Level: &r.Level}
			if err := cmd.PrintReport(os.Stderr, rep); err != nil {
				log.Print(err)
				retval = 1
			}
		}
		if *play {
			audioContext.Play(r.Samples).Wait()
		}
	}
	if audioContext != nil {
		audioContext.Close()
	}
	os.Exit(retval)
}

func output(filename string, r *render.Result, directory string, stdout, wavOut, rawOut bool) error {
	write := func(extension string, contents []byte) error {
		if stdout {
			_, err := os.Stdout.Write(contents)
			return err
		}
		dir := directory
		if dir == "" {
			var err error
			if dir, err = os.Getwd(); err != nil {
				return fmt.Errorf("could not get working directory, specify the output directory explicitly: %w", err)
			}
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
		_, name := filepath.Split(filename)
		name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
		f := filepath.Join(dir, name)
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %w", f, err)
		}
		log.Printf("wrote %v (%.2f s)", f, r.Duration())
		return nil
	}
	if wavOut {
		if err := write(".wav", r.Wav); err != nil {
			return err
		}
	}
	if rawOut {
		if err := write(".raw", r.Samples.Raw()); err != nil {
			return err
		}
	}
	return nil
}

func readScore(filename string) (ddsynth.Score, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi":
		return midifile.ReadFile(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return ddsynth.Score{}, err
	}
	return ddsynth.UnmarshalScore(data)
}

// inputFiles expands directories into the score files they contain.
func inputFiles(args []string) ([]string, error) {
	var ret []string
	for _, param := range args {
		info, err := os.Stat(param)
		if err != nil || !info.IsDir() {
			ret = append(ret, param)
			continue
		}
		for _, pattern := range []string{"*.yml", "*.yaml", "*.json", "*.mid"} {
			matches, err := filepath.Glob(filepath.Join(param, pattern))
			if err != nil {
				return nil, fmt.Errorf("could not glob the path %v for %v files: %w", param, pattern, err)
			}
			ret = append(ret, matches...)
		}
	}
	return ret, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "ddsynth command line utility for rendering .yml/.json/.mid scores.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
