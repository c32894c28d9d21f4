package cmd

import (
	"database/sql"
	"net"

	"github.com/vibast-solutions/ms-go-hydration/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  `Start both HTTP (Echo) and gRPC servers for the hydration service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	app := newApplication(cfg, db)

	go startGRPCServer(cfg, app)

	startHTTPServer(cfg, app)
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func startHTTPServer(cfg *config.Config, app *application) {
	e := app.httpHandler()
	defer e.Close()

	httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func startGRPCServer(cfg *config.Config, app *application) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcServer := app.grpcServer()
	defer grpcServer.GracefulStop()

	logrus.WithField("addr", grpcAddr).Info("Starting gRPC server")
	if err := grpcServer.Serve(lis); err != nil {
		logrus.WithError(err).Fatal("Failed to start gRPC server")
	}
}
