// Command qrform-cli generates a QR code image from the terminal. Content
// comes from the first positional argument, from a pipe, or from interactive
// prompts when neither is given.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-qrform/pkg/config"
	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/generator"
	"github.com/goliatone/go-qrform/pkg/model"
	"github.com/goliatone/go-qrform/pkg/resource"
	"github.com/goliatone/go-qrform/pkg/tui"
)

func main() {
	var output string
	flag.StringVar(&output, "output", "", "output file (defaults to config value)")
	flag.StringVar(&output, "o", "", "output file (shorthand)")
	var (
		endpointFlag   = flag.String("endpoint", "", "generation service URL (overrides config)")
		configFlag     = flag.String("config", "", "path to a JSON or YAML config file")
		sizeFlag       = flag.String("size", "", "image size in pixels")
		colorFlag      = flag.String("color", "", "foreground color, e.g. #000000")
		backgroundFlag = flag.String("background", "", "background color, e.g. #ffffff")
		marginFlag     = flag.String("margin", "", "quiet zone width in modules")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if *endpointFlag != "" {
		cfg.Endpoint = *endpointFlag
	}
	if output == "" {
		output = cfg.Output
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := generator.New(
		generator.WithEndpoint(cfg.Endpoint),
		generator.WithTimeout(timeout),
	)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}

	store := resource.NewStore()
	coord, err := coordinator.New(client, store)
	if err != nil {
		log.Fatalf("coordinator: %v", err)
	}
	defer coord.Close()

	session, err := tui.NewSession(coord)
	if err != nil {
		log.Fatalf("tui: %v", err)
	}

	text := strings.TrimSpace(flag.Arg(0))
	if text == "" {
		text = pipedContent()
	}

	ctx := context.Background()

	apply := func(name, raw string) {
		if raw == "" {
			return
		}
		if err := coord.UpdateField(name, raw); err != nil {
			log.Fatalf("invalid %s: %v", name, err)
		}
	}
	apply(model.FieldSize, *sizeFlag)
	apply(model.FieldColor, *colorFlag)
	apply(model.FieldBackground, *backgroundFlag)
	apply(model.FieldMargin, *marginFlag)

	if text != "" {
		apply(model.FieldText, text)
	} else {
		// No content supplied; collect everything interactively.
		if err := session.Collect(ctx, model.Fields()); err != nil {
			log.Fatalf("prompt: %v", err)
		}
	}

	if err := session.Generate(ctx, output); err != nil {
		log.Fatalf("generate: %v", err)
	}
}

// pipedContent reads stdin when input is redirected, so the tool composes
// with shells: echo https://example.com | qrform-cli
func pipedContent() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
