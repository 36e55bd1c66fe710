package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/grouping"
	"github.com/camtools/camerainit/internal/logx"
	"github.com/camtools/camerainit/internal/model"
	"github.com/camtools/camerainit/internal/pipeline"
	"github.com/camtools/camerainit/internal/sensordb"
	"github.com/camtools/camerainit/internal/sfmdata"
)

var (
	inputPath       string
	imageFolder     string
	sensorDBPath    string
	outputPath      string
	defaultFocalPx  float64
	defaultFoV      float64
	defaultKMatrix  string
	defaultModel    string
	groupModeFlag   int
	allowIncomplete bool
	allowSingleView bool
	workers         int
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Assign intrinsic parameter groups to every view of a dataset",
	Long: `Init performs a single pass over all views of a dataset (an existing
dataset file, or a raw image folder) to:
- Resolve the physical sensor width from the camera database
- Estimate an initial focal length in pixels per view
- Group views sharing one physical camera under a single intrinsic
- Report unknown sensors and metadata-less images

Example:
  camerainit init --image-folder ./images -s sensor_width_database.txt -o cameraInit.sfm
  camerainit init -i dataset.sfm -s sensor_width_database.txt --default-fov 45
  camerainit init --image-folder ./frames -s db.txt --group-camera-model 2 --allow-incomplete-output`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	defaults := model.DefaultConfig()

	// Input/output flags
	initCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input dataset file (*.sfm)")
	initCmd.Flags().StringVar(&imageFolder, "image-folder", "", "input images folder")
	initCmd.Flags().StringVarP(&sensorDBPath, "sensor-database", "s", "", "camera sensor width database path")
	initCmd.Flags().StringVarP(&outputPath, "output", "o", "cameraInit.sfm", "output dataset file path")
	_ = initCmd.MarkFlagRequired("sensor-database")

	// Default-intrinsic flags (mutually exclusive)
	initCmd.Flags().Float64Var(&defaultFocalPx, "default-focal-px", defaults.Defaults.FocalLengthPx, "focal length in pixels (-1 to unset)")
	initCmd.Flags().Float64Var(&defaultFoV, "default-fov", defaults.Defaults.FieldOfView, "empirical field of view in degrees (-1 to unset)")
	initCmd.Flags().StringVar(&defaultKMatrix, "default-intrinsic", "", `intrinsics K matrix "f;0;ppx;0;f;ppy;0;0;1"`)
	initCmd.Flags().StringVar(&defaultModel, "default-camera-model", defaults.Defaults.CameraModel, "camera model type (pinhole, radial1, radial3, brown, fisheye4, fisheye1)")

	// Policy flags
	initCmd.Flags().IntVar(&groupModeFlag, "group-camera-model", defaults.GroupingMode,
		"* 0: each view has its own camera intrinsic parameters\n"+
			"* 1: views share intrinsics based on metadata, metadata-less views stay ungrouped\n"+
			"* 2: views share intrinsics based on metadata, metadata-less views are grouped by folder\n")
	initCmd.Flags().BoolVar(&allowIncomplete, "allow-incomplete-output", defaults.AllowIncomplete, "allow writing an incomplete dataset that must be post-processed")
	initCmd.Flags().BoolVar(&allowSingleView, "allow-single-view", defaults.AllowSingleView, "allow processing a single view")
	initCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "number of parallel view workers")

	_ = viper.BindPFlag("grouping_mode", initCmd.Flags().Lookup("group-camera-model"))
	_ = viper.BindPFlag("workers", initCmd.Flags().Lookup("workers"))
}

func runInit(cmd *cobra.Command, args []string) error {
	log, err := logx.New(verbosity)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := validateFlags()
	if err != nil {
		return err
	}
	opts.Workers = workers

	// the database must be read entirely before any view processing begins
	sheets, err := sensordb.Parse(sensorDBPath)
	if err != nil {
		return fmt.Errorf("invalid input database %q: %w", sensorDBPath, err)
	}
	lookup := sensordb.NewLookup(sheets)
	log.Debugw("sensor database loaded", "records", len(sheets))

	ctx := context.Background()

	var ds *sfmdata.Dataset
	if imageFolder != "" {
		ds, err = sfmdata.IngestFolder(ctx, imageFolder, workers)
	} else {
		ds, err = sfmdata.Load(inputPath, sfmdata.AllFields)
	}
	if err != nil {
		return err
	}
	if len(ds.Views) == 0 {
		return fmt.Errorf("can't find views in input")
	}

	p := pipeline.New(lookup, opts, log)
	report, err := p.Run(ctx, ds)
	if err != nil {
		return err
	}

	p.LogDiagnostics(report)
	if err := report.Validate(allowIncomplete, allowSingleView); err != nil {
		return err
	}

	if err := sfmdata.Save(ds, outputPath, sfmdata.AllFields); err != nil {
		return err
	}

	log.Infof("CameraInit report:\n\t- # views listed in dataset: %d\n\t- # views with an initialized intrinsic: %d\n\t- # intrinsics listed in dataset: %d",
		report.TotalViews, report.CompleteViews, report.IntrinsicGroups)
	return nil
}

// validateFlags enforces the pre-pass error contract: input selection,
// output path, and the mutually exclusive default-intrinsic overrides.
func validateFlags() (pipeline.Options, error) {
	var opts pipeline.Options

	if inputPath == "" && imageFolder == "" {
		return opts, fmt.Errorf("an input is required: --input or --image-folder")
	}
	if inputPath != "" && imageFolder != "" {
		return opts, fmt.Errorf("cannot combine --input and --image-folder options")
	}
	if imageFolder != "" {
		if info, err := os.Stat(imageFolder); err != nil || !info.IsDir() {
			return opts, fmt.Errorf("the input folder %q doesn't exist", imageFolder)
		}
	}
	if inputPath != "" {
		if info, err := os.Stat(inputPath); err != nil || info.IsDir() {
			return opts, fmt.Errorf("the input dataset file %q doesn't exist", inputPath)
		}
	}
	if outputPath == "" {
		return opts, fmt.Errorf("invalid output path")
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return opts, fmt.Errorf("cannot create output folder: %w", err)
		}
	}

	// explicit K matrix, focal length and field of view are mutually exclusive
	if defaultKMatrix != "" && defaultFocalPx > 0 {
		return opts, fmt.Errorf("cannot combine --default-intrinsic and --default-focal-px options")
	}
	if defaultKMatrix != "" && defaultFoV > 0 {
		return opts, fmt.Errorf("cannot combine --default-intrinsic and --default-fov options")
	}
	if defaultFocalPx > 0 && defaultFoV > 0 {
		return opts, fmt.Errorf("cannot combine --default-focal-px and --default-fov options")
	}

	build := camera.DefaultBuildOptions()
	build.FocalLengthPx = defaultFocalPx
	build.FieldOfView = defaultFoV

	if defaultKMatrix != "" {
		focal, ppx, ppy, err := camera.ParseKMatrix(defaultKMatrix)
		if err != nil {
			return opts, fmt.Errorf("--default-intrinsic invalid K matrix input: %w", err)
		}
		build.FocalLengthPx = focal
		build.PPx = ppx
		build.PPy = ppy
	}

	if defaultModel != "" {
		family, err := camera.ParseFamily(defaultModel)
		if err != nil {
			return opts, err
		}
		build.Family = family
	}

	mode, err := grouping.ParseMode(groupModeFlag)
	if err != nil {
		return opts, err
	}

	opts.Build = build
	opts.Mode = mode
	opts.AllowIncomplete = allowIncomplete
	opts.AllowSingleView = allowSingleView
	return opts, nil
}
