package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeeftor/automaton/internal/capture"
	"github.com/jeeftor/automaton/internal/render"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

var (
	captureRegion    string
	captureName      string
	captureThumbnail uint
	captureList      bool
	capturePreview   bool
)

// previewSize bounds the terminal preview in pixels
const previewSize = 40

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Save the screen or a region of it as PNG",
	Long: `Save a screen capture to the capture folder (capture.dir).

Files are never overwritten: when the name is taken, _1, _2, ... is
appended. Captures make good templates for "automaton detect".

Examples:
  automaton capture                              # full screen
  automaton capture --region 100,200,64,32 --name ok_button
  automaton capture --thumbnail 128              # also save a small copy
  automaton capture --region 0,0,320,200 --preview
  automaton capture --list`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		eng, err := openEngine(cfg)
		if err != nil {
			utils.DeviceError("startup", err)
		}
		store := eng.Captures()

		if captureList {
			names, err := store.List()
			if err != nil {
				utils.FileSystemError("list", store.Dir(), err)
			}
			if len(names) == 0 {
				ui.InfoMessage("No captures in %s yet", store.Dir())
				return
			}
			ui.SectionHeader(fmt.Sprintf("Captures in %s", store.Dir()))
			for _, name := range names {
				ui.BulletPoint(name)
			}
			return
		}

		var path string
		if captureRegion != "" {
			x, y, w, h, perr := capture.ParseRegion(captureRegion)
			if perr != nil {
				utils.ValidationError(perr)
			}
			path, err = store.CaptureRegion(x, y, w, h, captureName)
		} else {
			path, err = store.Capture(captureName)
		}
		if err != nil {
			utils.DeviceError("capture", err)
		}

		if capturePreview {
			thumb, err := capture.Thumbnail(path, previewSize)
			if err != nil {
				utils.FatalError(err, "Could not build preview")
			}
			fmt.Print(render.FormatImageOutput(path, thumb))
		}

		if captureThumbnail > 0 {
			thumb, err := capture.Thumbnail(path, captureThumbnail)
			if err != nil {
				utils.FatalError(err, "Could not build thumbnail")
			}
			base := strings.TrimSuffix(path, ".png")
			if _, err := store.Save(thumb, base+"_thumb"); err != nil {
				utils.FileSystemError("save thumbnail for", path, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVarP(&captureRegion, "region", "r", "", "capture only x,y,w,h")
	captureCmd.Flags().StringVarP(&captureName, "name", "n", "", "file name without extension (default captured_region)")
	captureCmd.Flags().UintVar(&captureThumbnail, "thumbnail", 0, "also save a copy scaled to fit this many pixels")
	captureCmd.Flags().BoolVar(&capturePreview, "preview", false, "draw the capture in the terminal")
	captureCmd.Flags().BoolVar(&captureList, "list", false, "list saved captures instead of capturing")
}
