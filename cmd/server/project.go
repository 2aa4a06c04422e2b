package main

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"

	"projecttracker/internal/model"
	"projecttracker/internal/repository"
	"projecttracker/pkg/db"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Insert a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := projectInput{ProjectName: strings.Join(args, " ")}
		if err := binding.Validator.ValidateStruct(&in); err != nil {
			return fmt.Errorf("invalid project name: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		gdb, err := db.NewGorm(a.pool, a.log)
		if err != nil {
			return err
		}

		p := model.Project{ProjectName: in.ProjectName}
		if err := repository.NewProjectRepository(gdb, a.log).Create(cmd.Context(), &p); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", p.ProjectID, p.ProjectName, p.DateAdded.Format("2006-01-02 15:04:05"))
		return nil
	},
}

type projectInput struct {
	ProjectName string `binding:"required,max=100,ascii"`
}

func init() {
	projectCmd.AddCommand(projectAddCmd)
}
