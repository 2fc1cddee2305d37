// BrandStream - Brand colour palettes from any image
//
// BrandStream sends an image to a colour extraction service and turns the
// result into copyable colour cards and a downloadable palette image.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/brandstream/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
