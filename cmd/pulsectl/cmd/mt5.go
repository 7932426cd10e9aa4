package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"
	"pulse-node/internal/settings"
	"pulse-node/internal/terminal"

	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given, to keep it out of shell
// history.
const PasswordEnv = "MT5_PASSWORD"

type checkOptions struct {
	login    int64
	password string
	server   string
	timeout  time.Duration
}

type checkReport struct {
	Account   *domain.AccountSnapshot `json:"account"`
	Positions []domain.Position       `json:"positions"`
	domain.AccountTotals
}

func newMT5Cmd(opts *rootOptions) *cobra.Command {
	mt5Cmd := &cobra.Command{
		Use:   "mt5",
		Short: "MetaTrader 5 diagnostics",
	}

	check := &checkOptions{}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Log into an account, print it with open positions, then disconnect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts, check)
		},
	}
	checkCmd.Flags().Int64Var(&check.login, "login", 0, "account number")
	checkCmd.Flags().StringVar(&check.password, "password", "", "account password (default $"+PasswordEnv+")")
	checkCmd.Flags().StringVar(&check.server, "server", "", "broker server name")
	checkCmd.Flags().DurationVar(&check.timeout, "timeout", 30*time.Second, "overall time limit")
	_ = checkCmd.MarkFlagRequired("login")
	_ = checkCmd.MarkFlagRequired("server")

	mt5Cmd.AddCommand(checkCmd)
	return mt5Cmd
}

func runCheck(cmd *cobra.Command, opts *rootOptions, check *checkOptions) error {
	password := check.password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is required: pass --password or set " + PasswordEnv)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), check.timeout)
	defer cancel()

	store := settings.NewStore(opts.configDir)
	bridge := mt5.NewBridge(nil, terminal.NewGatewayClient(opts.gatewayURL, nil), store)

	creds := domain.Credentials{Login: check.login, Password: password, Server: check.server}
	if err := bridge.Connect(ctx, creds); err != nil {
		return fmt.Errorf("connect %s: %w", creds, err)
	}
	defer bridge.Disconnect(context.WithoutCancel(ctx))

	account := bridge.AccountInfo(ctx)
	report := checkReport{
		Account:       account,
		Positions:     bridge.Positions(ctx),
		AccountTotals: domain.TotalsOf(account),
	}
	return printJSON(cmd, report)
}
