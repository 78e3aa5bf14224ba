package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/web"
)

func newLocateCmd() *cobra.Command {
	var lat, lng float64
	var code int

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Center the map on a reported position",
		Long: `Report the outcome of a device position request: either a position
(--lat and --lng) or a geolocation error code (--error 1 permission denied,
2 position unavailable, 3 timeout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req web.LocateRequest
			switch {
			case cmd.Flags().Changed("error"):
				req.ErrorCode = &code
			case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"):
				req.Lat, req.Lng = &lat, &lng
			default:
				return fmt.Errorf("either --lat and --lng, or --error, is required")
			}
			return runLocate(cmd, req)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().IntVar(&code, "error", 0, "geolocation error code")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	cmd.MarkFlagsMutuallyExclusive("lat", "error")

	return cmd
}

func runLocate(cmd *cobra.Command, req web.LocateRequest) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	defer closeDirectory(cmd, dir)

	pos, n, err := dir.Locate(cmd.Context(), req)
	if err != nil {
		if n.Message != "" {
			return fmt.Errorf("%s", n.Message)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, pos)
	}
	printNotification(out, n)
	fmt.Fprintf(out, "  %s\n  %s\n", pos, geo.DirectionsURL(pos))
	return nil
}
