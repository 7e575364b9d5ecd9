package main

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/ConserveLee/farm-macro/internal/constants"
	"github.com/ConserveLee/farm-macro/internal/engine"
	"github.com/ConserveLee/farm-macro/internal/engine/screen"
	"github.com/kbinani/screenshot"
	"github.com/spf13/cobra"
)

func main() {
	var (
		live     bool
		display  int
		region   string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "debug_scan [image.png]",
		Short: "Run the chat OCR on a saved capture or the live screen and show keyword hits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i := 0; i < screenshot.NumActiveDisplays(); i++ {
				bounds := screenshot.GetDisplayBounds(i)
				fmt.Printf("Display %d (%dx%d) at %v\n", i, bounds.Dx(), bounds.Dy(), bounds.Min)
			}

			scanner := screen.NewScanner()
			scanner.SetDisplayID(display)
			defer scanner.Close()

			var text string
			if live {
				rect, err := engine.ParseRegion(region)
				if err != nil {
					return err
				}
				img, err := scanner.CaptureRegion(rect)
				if err != nil {
					return err
				}
				if err := screen.SaveImage(constants.DebugDumpFile, img); err != nil {
					fmt.Printf("Failed to save capture %s: %v\n", constants.DebugDumpFile, err)
				} else {
					fmt.Printf("Saved capture to %s\n", constants.DebugDumpFile)
				}
				if text, err = scanner.Recognize(img); err != nil {
					return err
				}
			} else {
				path := constants.DebugDumpFile
				if len(args) == 1 {
					path = args[0]
				}
				img, err := screen.LoadImage(path)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", path, err)
				}
				fmt.Printf("Image %s: %dx%d\n", path, img.Bounds().Dx(), img.Bounds().Dy())
				if text, err = scanner.Recognize(img); err != nil {
					return err
				}
			}

			fmt.Printf("\n=== OCR text ===\n%s\n", strings.TrimSpace(text))
			report(text, keywords)
			return nil
		},
	}

	def := engine.DefaultDetectorConfig()
	cmd.Flags().BoolVar(&live, "live", false, "capture the region from the screen instead of reading a file")
	cmd.Flags().IntVar(&display, "display", 0, "display index for --live")
	cmd.Flags().StringVar(&region, "region", formatRegion(def.Region), "region for --live: left,top,right,bottom")
	cmd.Flags().StringSliceVar(&keywords, "keywords", def.Keywords, "keywords to look for")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func report(text string, keywords []string) {
	lower := strings.ToLower(text)
	fmt.Println("\n=== Keywords ===")
	hit := false
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		found := strings.Contains(lower, k)
		hit = hit || found
		fmt.Printf("  %-16q found=%v\n", k, found)
	}
	fmt.Printf("Pest detected: %v\n", hit)
}

func formatRegion(r image.Rectangle) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
