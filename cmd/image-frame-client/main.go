package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ironsheep/image-frame-mcp/internal/client"
	"github.com/ironsheep/image-frame-mcp/internal/frame"
	"github.com/ironsheep/image-frame-mcp/internal/imaging"
)

func main() {
	serverCmd := flag.String("server", "image-frame-mcp", "Server command to spawn")
	list := flag.Bool("list", false, "List the server's tools and exit")
	tool := flag.String("tool", "", "Tool to call: echo, rotate or crop")
	path := flag.String("path", "", "Image path passed to the tool")
	direction := flag.String("direction", "clockwise", "Rotation direction for -tool rotate")
	box := flag.String("box", "0,0,1,1", "Normalized x_min,y_min,x_max,y_max for -tool crop")
	zoom := flag.Float64("zoom", 1.0, "Zoom factor for -tool crop")
	out := flag.String("out", "", "Save the returned image to this file (.png, .jpg or .bmp)")
	flag.Parse()

	log.SetFlags(0)

	args := strings.Fields(*serverCmd)
	if len(args) == 0 {
		log.Fatal("missing -server")
	}
	c, err := client.Spawn(args[0], args[1:]...)
	if err != nil {
		log.Fatalf("spawn: %v", err)
	}
	defer c.Close()

	if err := c.Initialize(); err != nil {
		log.Fatalf("initialize: %v", err)
	}
	info := c.ServerInfo()
	fmt.Printf("connected to %s %s\n", info.Name, info.Version)

	if *list || *tool == "" {
		tools, err := c.ListTools()
		if err != nil {
			log.Fatalf("list tools: %v", err)
		}
		for _, t := range tools {
			fmt.Printf("  %s: %s\n", t.Name, firstLine(t.Description))
		}
		return
	}

	var b *frame.Bitmap
	switch *tool {
	case "echo", "echo_image":
		b, err = c.EchoImage(*path)
	case "rotate", "rotate_image":
		b, err = c.RotateImage(*path, *direction)
	case "crop", "crop_and_zoom":
		var bb imaging.BoundingBox
		bb, err = parseBox(*box)
		if err != nil {
			log.Fatalf("invalid -box: %v", err)
		}
		b, err = c.CropAndZoom(*path, bb, *zoom)
	default:
		log.Fatalf("unknown -tool %q", *tool)
	}
	if err != nil {
		log.Fatalf("%s: %v", *tool, err)
	}

	fmt.Printf("Image dimensions: %dx%d, mode: %s, format: %s\n", b.Width, b.Height, b.Mode, b.FormatOr("-"))

	if *out != "" {
		if err := imaging.Save(*out, b); err != nil {
			log.Fatalf("save: %v", err)
		}
		fmt.Printf("saved %s\n", *out)
	}
}

func parseBox(s string) (imaging.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.BoundingBox{}, fmt.Errorf("want 4 comma-separated numbers, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return imaging.BoundingBox{}, err
		}
		v[i] = f
	}
	return imaging.BoundingBox{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
