package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [story_dir]\n", os.Args[0])
		os.Exit(1)
	}

	dir := ""
	if len(os.Args) == 2 {
		dir = os.Args[1]
	}

	if err := run(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Story is valid!")
}

func run(dir string) error {
	if dir == "" {
		fmt.Println("Validating embedded story...")
	} else {
		fmt.Printf("Validating %s...\n", dir)
	}

	story, err := sunlesscv.Open(dir)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d locations, %d competences\n", story.Name, len(story.Locations), len(story.Competences))
	return nil
}
