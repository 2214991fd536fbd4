package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"doc-gateway/internal/config"
	"doc-gateway/internal/converter"
	"doc-gateway/internal/queue"
	"doc-gateway/internal/registry"
	"doc-gateway/internal/service"
	"doc-gateway/internal/storage"
	httptransport "doc-gateway/internal/transport/http"
	"doc-gateway/internal/worker"

	_ "doc-gateway/docs"
)

var rootCmd = &cobra.Command{
	Use:   "doc-gateway",
	Short: "HTTP gateway in front of Gotenberg, Mineru and kkFileView",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server and its worker pool",
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides ADDR)")
	serveCmd.Flags().Int("workers", 0, "worker count (overrides WORKERS)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Workers = n
	}

	newStore := func(parts ...string) *storage.Store {
		dir := filepath.Join(append([]string{cfg.TempDir}, parts...)...)
		s, err := storage.NewStore(dir, cfg.MaxUploadBytes)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		return s
	}
	liboUploads := newStore("libreoffice", "uploads")
	liboOutputs := newStore("libreoffice", "outputs")
	mineruUploads := newStore("mineru", "uploads")
	kkUploads := newStore("kkfileview", "uploads")

	// DI: the service owns no globals, everything is constructed here.
	reg := registry.New()
	fifo := queue.NewFIFO()
	gotenberg := converter.NewGotenberg(time.Duration(cfg.GotenbergTimeoutSeconds) * time.Second)
	mineru := converter.NewMineru(cfg.MineruParsePath, time.Duration(cfg.MineruTimeoutSeconds)*time.Second)
	tasks := service.NewTaskService(reg, fifo)
	pool := worker.NewPool(reg, fifo, gotenberg, mineru, cfg.Workers)

	h := httptransport.NewHandler(httptransport.Deps{
		Tasks:                tasks,
		Gotenberg:            gotenberg,
		Mineru:               mineru,
		LibreOfficeUploads:   liboUploads,
		LibreOfficeOutputs:   liboOutputs,
		MineruUploads:        mineruUploads,
		KKFileViewUploads:    kkUploads,
		KKHostPublic:         cfg.KKHostPublic,
		MineruDefaultBaseURL: cfg.MineruDefaultBaseURL,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httptransport.Routes(h),
	}

	poolDone := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(poolDone)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("gateway started: addr=%s workers=%d temp_dir=%s", cfg.Addr, cfg.Workers, cfg.TempDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}

	<-poolDone
	log.Println("gateway stopped")
}
