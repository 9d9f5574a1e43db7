// Command soniclink is the CLI front-end spec §1 names as an external
// collaborator: it wires pkg/codec's encode/decode core to pkg/audio's
// device adapters and pkg/keys' on-disk key material, the way the
// teacher's cmd/project0 tools wire raw ASIO capture to file I/O via
// flag and internel/utils, generalized to this repo's pflag-based
// subcommand style (grounded on the pack's doismellburning-samoyed
// cmd/direwolf/main.go, the one example that builds its CLI on
// github.com/spf13/pflag rather than the standard library's flag).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"soniclink/internel/utils"
	"soniclink/pkg/async"
	"soniclink/pkg/audio"
	"soniclink/pkg/codec"
	"soniclink/pkg/keys"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "encode":
		err = runEncode(args)
	case "decode":
		err = runDecode(args)
	case "keygen":
		err = runKeygen(args)
	case "batch-encode":
		err = runBatchEncode(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "soniclink: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "soniclink: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: soniclink <encode|decode|keygen|batch-encode> [options]")
}

func runEncode(args []string) error {
	fs := pflag.NewFlagSet("encode", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file (defaults built in if omitted)")
	inputPath := fs.StringP("input", "i", "", "Input payload file (required)")
	outputPath := fs.StringP("output", "o", "output.bin", "Output waveform file (raw float32 PCM)")
	deviceName := fs.StringP("device", "d", "", "ASIO device name to play the waveform on; if empty, only writes output")
	publicKeyPath := fs.String("pubkey", "", "Recipient RSA public key, required when encrypt is enabled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPath == "" {
		return fmt.Errorf("encode: -i/--input is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	payload, err := os.ReadFile(*inputPath)
	if err != nil {
		return err
	}

	var keyProvider audio.KeyProvider
	if *publicKeyPath != "" {
		keyProvider = keys.FileProvider{PublicKeyPath: *publicKeyPath}
	}

	tracer := codec.NewSlogTracer(slog.Default())
	samples, err := codec.EncodeFrame(payload, resolved, keyProvider, tracer)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	fmt.Printf("Encoded %d bytes into %d samples (%.2fs at %d Hz)\n",
		len(payload), len(samples), float64(len(samples))/float64(cfg.Audio.SampleRate), cfg.Audio.SampleRate)

	if err := utils.WriteBinary(*outputPath, samples); err != nil {
		return fmt.Errorf("writing waveform: %w", err)
	}

	if *deviceName != "" {
		sink := &audio.ASIOSink{DeviceName: *deviceName, SampleRate: float64(cfg.Audio.SampleRate)}
		if err := sink.Push(samples); err != nil {
			return fmt.Errorf("playing waveform: %w", err)
		}
	}

	return nil
}

func runDecode(args []string) error {
	fs := pflag.NewFlagSet("decode", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file (defaults built in if omitted)")
	inputPath := fs.StringP("input", "i", "", "Captured waveform file (raw float32 PCM); if empty, captures live from --device")
	outputPath := fs.StringP("output", "o", "", "Output payload file; defaults to stdout")
	deviceName := fs.StringP("device", "d", "", "ASIO device name to capture from, when --input is not given")
	privateKeyPath := fs.String("privkey", "", "RSA private key, required when the frame is encrypted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	var source audio.AudioSource
	var liveCapture bool
	if *inputPath != "" {
		track, err := utils.ReadBinary[float32](*inputPath)
		if err != nil {
			return err
		}
		source = &audio.Player{Track: track}
	} else {
		if *deviceName == "" {
			return fmt.Errorf("decode: one of -i/--input or -d/--device is required")
		}
		source = &audio.ASIOSource{DeviceName: *deviceName, SampleRate: float64(cfg.Audio.SampleRate)}
		liveCapture = true
	}

	var keyProvider audio.KeyProvider
	if *privateKeyPath != "" {
		keyProvider = keys.FileProvider{PrivateKeyPath: *privateKeyPath}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	if liveCapture {
		fmt.Fprintln(os.Stderr, "soniclink: listening on", *deviceName, "- press Enter to stop")
		go func() {
			<-utils.WaitEnterAsync()
			cancel()
		}()
	}

	tracer := codec.NewSlogTracer(slog.Default())
	payload, err := codec.DecodeStream(ctx, source, resolved, keyProvider, tracer)
	if err != nil {
		return fmt.Errorf("decoding stream: %w", err)
	}

	if *outputPath == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(*outputPath, payload, 0o644)
}

func runKeygen(args []string) error {
	fs := pflag.NewFlagSet("keygen", pflag.ExitOnError)
	privPath := fs.StringP("private", "p", "id_rsa", "Output path for the private key")
	pubPath := fs.StringP("public", "P", "id_rsa.pub", "Output path for the public key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := keys.GenerateKeyPair(*privPath, *pubPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %s and %s\n", *privPath, *pubPath)
	return nil
}

// encodeResult is one file's outcome in a batch-encode run.
type encodeResult struct {
	inputPath string
	samples   []float32
	err       error
}

// runBatchEncode encodes multiple independent payload files concurrently,
// one waveform per input. Spec §5's concurrency model confines
// parallelism to independent frames, never inside one frame, which is
// exactly what this command does: each file becomes its own frame,
// encoded on its own goroutine via async.Promise, then collected with
// async.GatherN.
func runBatchEncode(args []string) error {
	fs := pflag.NewFlagSet("batch-encode", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file (defaults built in if omitted)")
	outDir := fs.StringP("out-dir", "o", ".", "Directory to write one <input>.pcm per input file")
	publicKeyPath := fs.String("pubkey", "", "Recipient RSA public key, required when encrypt is enabled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("batch-encode: at least one input file is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	var keyProvider audio.KeyProvider
	if *publicKeyPath != "" {
		keyProvider = keys.FileProvider{PublicKeyPath: *publicKeyPath}
	}
	tracer := codec.NewSlogTracer(slog.Default())

	promises := make([]<-chan encodeResult, len(inputs))
	for i, path := range inputs {
		path := path
		promises[i] = async.Promise(func() encodeResult {
			payload, err := os.ReadFile(path)
			if err != nil {
				return encodeResult{inputPath: path, err: err}
			}
			samples, err := codec.EncodeFrame(payload, resolved, keyProvider, tracer)
			return encodeResult{inputPath: path, samples: samples, err: err}
		})
	}

	results := <-async.GatherN(promises...)
	var failed int
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "soniclink: %s: %v\n", r.inputPath, r.err)
			failed++
			continue
		}
		outPath := fmt.Sprintf("%s/%s.pcm", *outDir, baseName(r.inputPath))
		if err := utils.WriteBinary(outPath, r.samples); err != nil {
			fmt.Fprintf(os.Stderr, "soniclink: %s: %v\n", outPath, err)
			failed++
			continue
		}
		fmt.Printf("%s -> %s (%d samples)\n", r.inputPath, outPath, len(r.samples))
	}
	if failed > 0 {
		return fmt.Errorf("batch-encode: %d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

func baseName(path string) string {
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			start = i + 1
			break
		}
	}
	name := path[start:]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

func loadConfig(path string) (codec.Config, error) {
	if path == "" {
		return codec.DefaultConfig(), nil
	}
	return codec.LoadConfig(path)
}
