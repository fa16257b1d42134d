package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/eliseohh/sagebot/internal/log"
)

var coursesJSON bool

// coursesCmd performs the course-list request from the shell.
// It exits non-zero unless Canvas answers 200 with a list.
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List Canvas courses for the configured token",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		ll := log.GetLogger(log.CLIModule)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		courses, err := buildCanvasClient().ListCourses(ctx)
		if err != nil {
			ll.WithError(err).Error("can not list courses")
			return errors.Wrap(err, "list courses")
		}

		out := cmd.OutOrStdout()
		if coursesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(courses)
		}
		for _, c := range courses {
			fmt.Fprintf(out, "%d\t%s\t%s\n", c.ID, c.CourseCode, c.Name)
		}
		ll.Infof("%d courses", len(courses))
		return nil
	},
}

func init() {
	coursesCmd.Flags().BoolVar(&coursesJSON, "json", false, "print courses as JSON")
	rootCmd.AddCommand(coursesCmd)
}
