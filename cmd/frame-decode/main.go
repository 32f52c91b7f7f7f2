package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
	"github.com/ironsheep/image-frame-mcp/internal/imaging"
)

func main() {
	path := flag.String("path", "", "Path to a captured frame (raw or base64)")
	out := flag.String("out", "", "Save the decoded image to this file (.png, .jpg or .bmp)")
	flag.Parse()

	if *path == "" {
		log.Fatal("missing -path")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}

	b, err := decode(data)
	if err != nil {
		log.Fatalf("decode %s: %v", *path, err)
	}

	fmt.Printf("There are %d bytes in the frame\n", len(data))
	fmt.Printf("Image dimensions: %dx%d, mode: %s\n", b.Width, b.Height, b.Mode)
	if b.Format != "" {
		fmt.Printf("Declared format: %s\n", b.Format)
	}

	if *out != "" {
		if err := imaging.Save(*out, b); err != nil {
			log.Fatalf("save: %v", err)
		}
		fmt.Printf("saved %s\n", *out)
	}
}

// decode accepts either a raw frame or the base64 text found in an MCP image
// content item.
func decode(data []byte) (*frame.Bitmap, error) {
	b, err := frame.Decode(data)
	if err == nil {
		return b, nil
	}

	raw, berr := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	if berr != nil {
		return nil, err
	}
	return frame.Decode(raw)
}
