// Command dmd downloads the static data files (blocks, items, biomes,
// tags, registry data) the server reads at boot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of data files")
		ver      = flag.String("version", "1.21", "game version")
		out      = flag.String("o", "./resources", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *platform == "" {
		panic("platform required")
	}

	if *ver == "" {
		panic("version required")
	}

	if err := os.RemoveAll(*out); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading data files to %s", *out)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.21
	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)

	if err := get.Get(*out, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading data files to %s", *out)
}
