package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/rester"
	"github.com/adamwoolhether/rester/client"
)

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"base_url":         "base-url",
	"mode":             "mode",
	"user_agent":       "user-agent",
	"log_level":        "log-level",
	"response_timeout": "response-timeout",
	"resource_timeout": "resource-timeout",
	"max_in_flight":    "max-in-flight",
	"rps":              "rps",
	"burst":            "burst",
}

type callFlags struct {
	configFile string
	envFile    string
	params     map[string]string
	headers    []string
	data       string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f callFlags
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "restcall METHOD PATH [flags]",
		Short: "Issue a single REST call and print the response",
		Long: `restcall issues one REST call through the rester client and prints the
status code followed by the response body.

Examples:
  # Get a resource with query parameters
  restcall GET https://api.example.com/items -p page=2 -p sort=name

  # Post JSON against a base URL taken from the environment
  RESTCALL_BASE_URL=https://api.example.com restcall POST /items -d '{"name":"x"}' -H 'Content-Type: application/json'

  # Use the callback calling convention
  restcall GET /items --mode callback`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, f.configFile, f.envFile)
			if err != nil {
				return err
			}
			if f.verbose {
				cfg.LogLevel = "debug"
			}

			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, f, client.Verb(strings.ToUpper(args[0])), args[1])
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "Path to a YAML, JSON or TOML config file")
	fs.StringVar(&f.envFile, "env-file", "", "Path to a .env file loaded before RESTCALL_* variables are read")
	fs.StringToStringVarP(&f.params, "param", "p", nil, "Query parameter as key=value, repeatable")
	fs.StringArrayVarP(&f.headers, "header", "H", nil, "Header as 'Name: value', repeatable")
	fs.StringVarP(&f.data, "data", "d", "", "Request body, sent for POST, PUT and DELETE")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log every phase of the call, including the curl equivalent")

	fs.String("base-url", "", "Base URL relative paths are joined onto")
	fs.String("mode", "blocking", "Calling convention: blocking, callback or stream")
	fs.String("user-agent", "restcall/1.0", "User-Agent header")
	fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	fs.Duration("response-timeout", 10*time.Second, "Time to wait for response headers")
	fs.Duration("resource-timeout", 60*time.Second, "Time allowed for the whole exchange")
	fs.Int("max-in-flight", 0, "Concurrent request limit, 0 for none")
	fs.Int("rps", 0, "Requests per second, 0 disables throttling")
	fs.Int("burst", 0, "Throttle burst, defaults to rps")

	for key, name := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, cfg config, f callFlags, verb client.Verb, path string) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.level()}))

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithCategory(cfg.Category),
		client.WithTimeouts(cfg.ResponseTimeout, cfg.ResourceTimeout),
		client.WithMaxInFlight(cfg.MaxInFlight),
		client.WithDefaultHeaders(cfg.Headers),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Origin != "" {
		opts = append(opts, client.WithOrigin(cfg.Origin))
	}
	if cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(cfg.RPS, cfg.Burst))
	}

	c, err := rester.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}
	defer c.Close()

	callOpts, err := f.callOptions()
	if err != nil {
		return err
	}

	var resp *client.Response
	switch cfg.Mode {
	case "callback":
		resp, err = callback(ctx, c, verb, path, callOpts)
	case "stream":
		resp, err = c.Perform(client.Route{Method: verb, URI: path}, callOpts...).Await(ctx)
	default:
		resp, err = c.Do(ctx, verb, path, callOpts...)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, resp.StatusCode)
	if len(resp.Body) > 0 {
		fmt.Fprintln(stdout, string(resp.Body))
	}

	return nil
}

// callback bridges the async convention back to a single return value.
func callback(ctx context.Context, c *client.Client, verb client.Verb, path string, opts []client.CallOption) (*client.Response, error) {
	type result struct {
		resp *client.Response
		err  *client.Error
	}

	ch := make(chan result, 1)
	c.DoAsync(ctx, verb, path,
		func(resp *client.Response) { ch <- result{resp: resp} },
		func(err *client.Error) { ch <- result{err: err} },
		opts...,
	)

	r := <-ch
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func (f callFlags) callOptions() ([]client.CallOption, error) {
	var opts []client.CallOption

	if len(f.params) > 0 {
		opts = append(opts, client.WithParams(f.params))
	}

	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q: %w", h, errBadHeader)
		}
		opts = append(opts, client.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	if f.data != "" {
		opts = append(opts, client.WithBody([]byte(f.data)))
	}

	return opts, nil
}

var errBadHeader = errors.New("expected 'Name: value'")
