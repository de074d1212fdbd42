package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/cli/config"
	controller "github.com/secmon-lab/warden/pkg/controller/http"
	"github.com/secmon-lab/warden/pkg/service/llm"
	"github.com/secmon-lab/warden/pkg/service/otp"
	"github.com/secmon-lab/warden/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		firestoreCfg config.Firestore
		geminiCfg    config.Gemini
		bootstrapCfg config.Bootstrap
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		geminiCfg.Flags(),
		bootstrapCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting warden server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("firestore", firestoreCfg),
				slog.Any("gemini", geminiCfg),
			)

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			bootstrap, err := bootstrapCfg.Configure()
			if err != nil {
				return err
			}

			// The LLM client is optional; without it generative features
			// fall back to synthetic data
			var llmSvc *llm.Service
			if client := geminiCfg.ConfigureOptional(ctx, logger); client != nil {
				llmSvc = llm.New(client)
			}

			auditUC := usecase.NewAudit(repo)
			authUC := usecase.NewAuth(repo, otp.New(repo), auditUC)
			eventsUC := usecase.NewEvents(repo, llmSvc, auditUC)
			investigationUC := usecase.NewInvestigation(repo, llmSvc, auditUC)
			huntsUC := usecase.NewHunts(repo, investigationUC, auditUC)
			inboxUC := usecase.NewInbox(repo)
			calendarUC := usecase.NewCalendar(repo)
			usersUC := usecase.NewUsers(repo, auditUC, inboxUC)
			socUC := usecase.NewSOC(llmSvc, bootstrap)

			if err := authUC.Bootstrap(ctx, bootstrap); err != nil {
				return goerr.Wrap(err, "failed to bootstrap admin account")
			}
			if err := eventsUC.EnsureSeeded(ctx); err != nil {
				return goerr.Wrap(err, "failed to seed alert store")
			}

			server := controller.NewServer(ctx, serverCfg.Addr, &controller.UseCases{
				Auth:          authUC,
				Events:        eventsUC,
				Investigation: investigationUC,
				Hunts:         huntsUC,
				Inbox:         inboxUC,
				Calendar:      calendarUC,
				Users:         usersUC,
				Audit:         auditUC,
				SOC:           socUC,
			})

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
