package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ddalabctl/internal/cli"
	"ddalabctl/internal/doctor"
)

// dockerFactory creates the Docker client used by doctor. Tests swap it.
var dockerFactory = func() (doctor.DockerAPI, error) {
	c, err := doctor.NewDockerClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the manager API, Docker and the backend container",
		Long: `Run every diagnostic and print a report: whether the manager API answers,
an installation is selected, the Docker daemon is reachable and the
backend container (docker.backendContainer) is running.

Exits non-zero when a check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			settings := s.app.Settings()

			docker, dockerErr := dockerFactory()
			if c, ok := docker.(io.Closer); ok {
				defer c.Close()
			}

			d := &doctor.Doctor{
				Backend:   s.backend,
				BaseURL:   settings.API.BaseURL,
				Docker:    docker,
				DockerErr: dockerErr,
				Container: settings.Docker.BackendContainer,
			}
			report := d.Run(cmd.Context())
			if err := s.printer.Print(cli.DoctorView(report)); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}
