package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ayush/sustainawatt/internal/config"
	"github.com/ayush/sustainawatt/internal/inference"
	"github.com/ayush/sustainawatt/internal/store"
)

// objectStore is the part of store.MinioStore modelctl needs.
type objectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Remove(ctx context.Context, key string) error
}

func main() {
	if len(os.Args) < 2 {
		showHelp(os.Stdout)
		return
	}

	command := os.Args[1]
	if command == "help" {
		showHelp(os.Stdout)
		return
	}
	if command == "check" {
		if err := checkCommand(os.Stdout, os.Args[2:]); err != nil {
			fail(err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	objects, err := connect(ctx)
	if err != nil {
		fail(err)
	}
	if err := run(ctx, objects, os.Stdout, command, os.Args[2:]); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func connect(ctx context.Context) (*store.MinioStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Minio.Endpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is not set")
	}
	return store.NewMinioStore(ctx, cfg.Minio)
}

func run(ctx context.Context, objects objectStore, out io.Writer, command string, args []string) error {
	switch command {
	case "push":
		if len(args) != 2 {
			return fmt.Errorf("usage: modelctl push <name> <file>")
		}
		return pushCommand(ctx, objects, out, args[0], args[1])
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: modelctl show <name>")
		}
		return showCommand(ctx, objects, out, args[0])
	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: modelctl rm <name>")
		}
		if err := objects.Remove(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %s\n", args[0])
		return nil
	case "ls":
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		keys, err := objects.List(ctx, prefix)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	default:
		showHelp(out)
		return fmt.Errorf("unknown command: %s", command)
	}
}

// pushCommand refuses artifacts the server would fail to load.
func pushCommand(ctx context.Context, objects objectStore, out io.Writer, name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := inference.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := objects.Upload(ctx, name, data, "application/json"); err != nil {
		return err
	}
	fmt.Fprintf(out, "pushed %s (%s, %d features)\n", name, m.Kind, m.Width())
	return nil
}

func showCommand(ctx context.Context, objects objectStore, out io.Writer, name string) error {
	data, _, err := objects.Download(ctx, name)
	if err != nil {
		return err
	}
	m, err := inference.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	describe(out, name, m)
	return nil
}

func checkCommand(out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: modelctl check <file>...")
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := inference.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		describe(out, path, m)
	}
	return nil
}

func describe(out io.Writer, name string, m *inference.LinearModel) {
	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "  kind:      %s\n", m.Kind)
	fmt.Fprintf(out, "  features:  %d", m.Width())
	if len(m.Features) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(m.Features, ", "))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  scaled:    %t\n", len(m.Mean) > 0 || len(m.Scale) > 0)
	if len(m.Classes) > 0 {
		fmt.Fprintf(out, "  classes:   %v\n", m.Classes)
	}
}

func showHelp(out io.Writer) {
	fmt.Fprintln(out, "SustainaWatt - model artifact tool")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage: modelctl <command> [arguments]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  push <name> <file>   Validate a model file and upload it to the bucket")
	fmt.Fprintln(out, "  show <name>          Download a model and print a summary")
	fmt.Fprintln(out, "  rm <name>            Remove a model from the bucket")
	fmt.Fprintln(out, "  ls [prefix]          List stored models")
	fmt.Fprintln(out, "  check <file>...      Validate local model files")
	fmt.Fprintln(out, "  help                 Show this help message")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, "  MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET, or CONFIG_FILE")
}
