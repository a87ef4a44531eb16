package cli

import (
	"os"

	"github.com/spf13/cobra"

	"studybot-client/internal/app"
	"studybot-client/internal/config"
	"studybot-client/internal/remote"
)

var (
	serverURL  string
	token      string
	configPath string
	quizTopic  string
	quizCount  int
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envServer := os.Getenv("STUDYBOT_SERVER")
	envToken := os.Getenv("STUDYBOT_TOKEN")
	envConfig := os.Getenv("STUDYBOT_CONFIG")

	cmd := &cobra.Command{
		Use:   "studybot",
		Short: "Terminal client for the Study Bot tutoring service",
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", envServer, "base URL of the Study Bot API")
	cmd.PersistentFlags().StringVar(&token, "token", envToken, "bearer token for the Study Bot API")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewChatCmd(&configPath, &serverURL, &token))
	cmd.AddCommand(NewServeCmd(&configPath, &serverURL, &token))
	cmd.AddCommand(NewUploadCmd(&configPath, &serverURL, &token))
	return cmd
}

// buildSession resolves config and flags into a wired session. Flags and env
// take precedence over the config file; the file itself is optional.
func buildSession(configPath, serverFlag, tokenFlag string) (*app.Session, *remote.Client, config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, cfg, err
		}
		cfg = loaded
	}

	server := serverFlag
	if server == "" {
		server = cfg.Server.URL
	}
	if server == "" {
		server = "http://localhost:8000"
	}
	bearer := tokenFlag
	if bearer == "" {
		bearer = cfg.Auth.Token
	}
	timeout := config.Timeout(cfg.Server.Timeout, remote.DefaultTimeout)
	if cfg.Quiz.Count == 0 {
		cfg.Quiz.Count = 3
	}

	client := remote.NewClient(server, bearer, timeout)
	return app.NewSession(client), client, cfg, nil
}
