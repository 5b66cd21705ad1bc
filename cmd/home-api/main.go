package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gyojincompany/home-backend/internal/auth"
	"github.com/gyojincompany/home-backend/internal/config"
	"github.com/gyojincompany/home-backend/internal/database"
	"github.com/gyojincompany/home-backend/internal/logging"
	"github.com/gyojincompany/home-backend/internal/server"
	"github.com/gyojincompany/home-backend/internal/users"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "home-api",
		Short: "Home backend auth service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("access-ttl-minutes", defaults.GetInt("auth.access_ttl_minutes"), "Access token TTL in minutes")
	cmd.PersistentFlags().Int("refresh-ttl-minutes", defaults.GetInt("auth.refresh_ttl_minutes"), "Refresh token TTL in minutes")
	cmd.PersistentFlags().String("oauth-redirect-url", defaults.GetString("oauth.redirect_url"), "Front-end URL receiving federated login tokens")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Token signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "auth.access_ttl_minutes", "access-ttl-minutes")
	bindFlag(cmd, "auth.refresh_ttl_minutes", "refresh-ttl-minutes")
	bindFlag(cmd, "oauth.redirect_url", "oauth-redirect-url")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.SeedDefaultAccounts(ctx, db, logger); err != nil {
		return err
	}

	directory, err := users.NewDirectory(users.DirectoryConfig{Database: db})
	if err != nil {
		return err
	}

	tokenService, err := auth.NewTokenService(auth.TokenServiceConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		AccessTTL:     appConfig.AccessTokenTTL,
		RefreshTTL:    appConfig.RefreshTokenTTL,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceConfig{
		Directory: directory,
		Tokens:    tokenService,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Auth:             authService,
		Tokens:           tokenService,
		Directory:        directory,
		OAuthRedirectURL: appConfig.OAuthRedirectURL,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
