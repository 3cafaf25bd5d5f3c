package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/export"
	"github.com/acquagyn/swimeval/internal/handler"
	appI18n "github.com/acquagyn/swimeval/internal/i18n"
	"github.com/acquagyn/swimeval/internal/model"
	"github.com/acquagyn/swimeval/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swimeval",
		Short: "Swim-school evaluation server with PDF reports and certificates",
	}

	serve := serveCmd()
	root.AddCommand(serve, levelsCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `swimeval --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP evaluation server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("instructor-user", "admin@teste.com", "Instructor login")
	f.String("instructor-name", "Administrador", "Instructor display name")
	f.String("instructor-password", "", "Instructor password (or set SWIMEVAL_INSTRUCTOR_PASSWORD)")
	f.StringP("lang", "l", "pt", "UI language (pt, en)")
	f.String("assets", "", "Directory with the academy logo and level mascot PNGs")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /natacao)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func levelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Export the level catalog as JSON",
		RunE:  runLevels,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SWIMEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("swimeval")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/swimeval")
	v.AddConfigPath("/etc/swimeval")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	db := store.New()
	password := v.GetString("instructor-password")
	if password == "" {
		return fmt.Errorf("instructor password is required: set --instructor-password flag or SWIMEVAL_INSTRUCTOR_PASSWORD env var")
	}
	if err := db.SeedInstructor(
		v.GetString("instructor-user"),
		v.GetString("instructor-name"),
		password,
	); err != nil {
		return fmt.Errorf("seed instructor: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	assetsDir := v.GetString("assets")
	if assetsDir != "" {
		if _, err := os.Stat(assetsDir); err != nil {
			slog.Warn("assets directory not readable, images will be skipped", "dir", assetsDir, "error", err)
			assetsDir = ""
		}
	}

	cfg := model.Config{
		Lang:          lang,
		AssetsDir:     assetsDir,
		BasePath:      basePath,
		SecureCookies: v.GetBool("secure-cookies"),
	}

	exp := export.New(cat, assetsDir)
	h := handler.New(db, cat, exp, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"levels", len(cat.Levels()),
		"assets", assetsDir,
		"base_path", basePath,
	)
	return http.ListenAndServe(addr, r)
}

func runLevels(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	data, err := json.MarshalIndent(cat.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
