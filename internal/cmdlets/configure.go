package cmdlets

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/gizmo-platform/driverstation/pkg/config"
)

var (
	configCommand = &cobra.Command{
		Use:   "configure",
		Short: "configure prompts for required configuration values",
		Long:  configCmdLongDocs,
		Run:   configCmdRun,
	}

	configCmdLongDocs = `configure prompts in a wizard style for the values that are stored in the config file.  The file is read from GIZMO_DS_CONFIG, or ds_config.cfg in the current directory.`
)

func init() {
	rootCmd.AddCommand(configCommand)
}

type configAnswers struct {
	Team        string
	Address     string
	LocalBroker bool
	HTTPBind    string
}

func validateTeam(v interface{}) error {
	s, _ := v.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("team number must be a positive integer")
	}
	return nil
}

func configCmdRun(c *cobra.Command, args []string) {
	cfg, err := config.Load(config.Path(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}

	address := cfg.Endpoint()
	if _, err := strconv.Atoi(address); err == nil {
		address = ""
	}

	qs := []*survey.Question{
		{
			Name:     "Team",
			Validate: survey.ComposeValidators(survey.Required, validateTeam),
			Prompt: &survey.Input{
				Message: "Team Number",
				Default: strconv.Itoa(cfg.TeamNumber()),
			},
		},
		{
			Name: "Address",
			Prompt: &survey.Input{
				Message: "Robot address (leave blank to use the team number)",
				Default: address,
			},
		},
		{
			Name: "LocalBroker",
			Prompt: &survey.Confirm{
				Message: "Run a broker on this machine?",
				Default: cfg.LocalBroker(),
			},
		},
		{
			Name: "HTTPBind",
			Prompt: &survey.Input{
				Message: "Dashboard address (leave blank to disable)",
				Default: cfg.HTTPBind(),
			},
		},
	}

	a := configAnswers{}
	if err := survey.Ask(qs, &a); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := applyAnswers(cfg, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating config: %s\n", err)
		os.Exit(1)
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %s\n", err)
		os.Exit(1)
	}
}

func applyAnswers(cfg *config.Config, a configAnswers) error {
	team, err := strconv.Atoi(strings.TrimSpace(a.Team))
	if err != nil {
		return err
	}
	if err := cfg.SetTeamNumber(team); err != nil {
		return err
	}

	endpoint := strings.TrimSpace(a.Address)
	if endpoint == "" {
		endpoint = strconv.Itoa(team)
	}
	if err := cfg.SetEndpoint(endpoint); err != nil {
		return err
	}

	cfg.SetLocalBroker(a.LocalBroker)
	cfg.SetHTTPBind(strings.TrimSpace(a.HTTPBind))
	return nil
}
