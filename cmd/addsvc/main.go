package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	consulsd "github.com/go-kit/kit/sd/consul"
	"github.com/kelseyhightower/envconfig"
	stdopentracing "github.com/opentracing/opentracing-go"
	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/cage1016/adder/pkg/addsvc/endpoints"
	"github.com/cage1016/adder/pkg/addsvc/service"
	"github.com/cage1016/adder/pkg/addsvc/transports"
	"github.com/cage1016/adder/pkg/sd"
)

const envPrefix = "QS_ADDSVC"

type config struct {
	NameSpace   string   `envconfig:"NAMESPACE" default:"adder"`
	ServiceName string   `envconfig:"SERVICE_NAME" default:"addsvc"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	ServiceHost string   `envconfig:"SERVICE_HOST" default:"localhost"`
	HTTPPort    string   `envconfig:"HTTP_PORT" default:"8180"`
	GRPCPort    string   `envconfig:"GRPC_PORT" default:"8181"`
	ZipkinV2URL string   `envconfig:"QS_ZIPKIN_V2_URL"`
	ConsulAddr  string   `envconfig:"QS_CONSUL_ADDR"`
	APIKey      string   `envconfig:"API_KEY"`
	ExemptPaths []string `envconfig:"EXEMPT_PATHS"`
	RateLimit   int      `envconfig:"RATE_LIMIT" default:"1000"`
	PublicDir   string   `envconfig:"PUBLIC_DIR" default:"public"`
	TLSCert     string   `envconfig:"TLS_CERT" default:"certs/server.crt"`
	TLSKey      string   `envconfig:"TLS_KEY" default:"certs/server.key"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		level.Error(log.NewLogfmtLogger(os.Stderr)).Log("config", envPrefix, "err", err)
		os.Exit(1)
	}

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = level.NewFilter(logger, levelOption(cfg.LogLevel))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}
	logger = log.With(logger, "service", cfg.ServiceName)

	var tracer stdopentracing.Tracer
	{
		tracer = stdopentracing.GlobalTracer()
	}

	var zipkinTracer *zipkin.Tracer
	{
		var (
			err           error
			hostPort      = fmt.Sprintf("localhost:%s", cfg.HTTPPort)
			serviceName   = cfg.ServiceName
			useNoopTracer = (cfg.ZipkinV2URL == "")
			reporter      = zipkinhttp.NewReporter(cfg.ZipkinV2URL)
		)
		defer reporter.Close()
		zEP, _ := zipkin.NewEndpoint(serviceName, hostPort)
		zipkinTracer, err = zipkin.NewTracer(reporter, zipkin.WithLocalEndpoint(zEP), zipkin.WithNoopTracer(useNoopTracer))
		if err != nil {
			level.Error(logger).Log("tracer", "Zipkin", "err", err)
			os.Exit(1)
		}
		if !useNoopTracer {
			level.Info(logger).Log("tracer", "Zipkin", "type", "Native", "URL", cfg.ZipkinV2URL)
		}
	}

	var duration *kitprometheus.Summary
	{
		duration = kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: cfg.NameSpace,
			Subsystem: cfg.ServiceName,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds.",
		}, []string{"method", "success"})
	}

	tcfg := transports.Config{APIKey: cfg.APIKey, ExemptPaths: cfg.ExemptPaths, PublicDir: publicDir(cfg.PublicDir, logger)}
	svc := service.New(logger)
	eps := endpoints.New(svc, logger, duration, tracer, zipkinTracer, cfg.RateLimit)
	grpcServer, _ := transports.NewGRPCServer(transports.MakeGRPCServer(eps, tracer, zipkinTracer, logger), cfg.ServiceName, tcfg, tracer, logger)

	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	m.Handle("/", transports.NewHTTPHandler(eps, tcfg, tracer, zipkinTracer, logger))

	if cfg.ConsulAddr != "" {
		registrar, err := newRegistrar(cfg, logger)
		if err != nil {
			level.Error(logger).Log("consul", cfg.ConsulAddr, "err", err)
			os.Exit(1)
		}
		registrar.Register()
		defer registrar.Deregister()
	}

	errs := make(chan error, 2)
	go startHTTPServer(cfg, m, logger, errs)
	go startGRPCServer(cfg, grpcServer, logger, errs)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	err = <-errs
	level.Info(logger).Log("serviceName", cfg.ServiceName, "terminated", err)
}

func loadConfig() (cfg config, err error) {
	err = envconfig.Process(envPrefix, &cfg)
	return cfg, err
}

func levelOption(l string) level.Option {
	switch strings.ToLower(l) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// publicDir returns dir when it exists, so a missing asset directory just
// disables static serving.
func publicDir(dir string, logger log.Logger) string {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		level.Debug(logger).Log("public", dir, "static", "disabled")
		return ""
	}
	return dir
}

func newRegistrar(cfg config, logger log.Logger) (*consulsd.Registrar, error) {
	port, err := strconv.Atoi(cfg.HTTPPort)
	if err != nil {
		return nil, fmt.Errorf("http port %q: %w", cfg.HTTPPort, err)
	}
	client, err := sd.NewClient(cfg.ConsulAddr)
	if err != nil {
		return nil, err
	}
	grpcPort, err := strconv.Atoi(cfg.GRPCPort)
	if err != nil {
		return nil, fmt.Errorf("grpc port %q: %w", cfg.GRPCPort, err)
	}
	scheme := "http"
	if tlsEnabled(cfg) {
		scheme = "https"
	}
	statusURL := fmt.Sprintf("%s://%s/status", scheme, net.JoinHostPort(cfg.ServiceHost, strconv.Itoa(port)))
	reg := sd.Registration(cfg.ServiceName, cfg.ServiceHost, grpcPort, statusURL, []string{cfg.NameSpace})
	return sd.NewRegistrar(client, reg, logger), nil
}

// startHTTPServer serves TLS when both the certificate and the key are
// present, plaintext otherwise.
func startHTTPServer(cfg config, httpHandler http.Handler, logger log.Logger, errs chan error) {
	p := fmt.Sprintf(":%s", cfg.HTTPPort)
	if tlsEnabled(cfg) {
		level.Info(logger).Log("serviceName", cfg.ServiceName, "protocol", "HTTPS", "exposed", cfg.HTTPPort, "cert", cfg.TLSCert)
		errs <- http.ListenAndServeTLS(p, cfg.TLSCert, cfg.TLSKey, httpHandler)
		return
	}
	level.Info(logger).Log("serviceName", cfg.ServiceName, "protocol", "HTTP", "exposed", cfg.HTTPPort)
	errs <- http.ListenAndServe(p, httpHandler)
}

func startGRPCServer(cfg config, server *grpc.Server, logger log.Logger, errs chan error) {
	p := fmt.Sprintf(":%s", cfg.GRPCPort)
	listener, err := net.Listen("tcp", p)
	if err != nil {
		level.Error(logger).Log("serviceName", cfg.ServiceName, "protocol", "GRPC", "listen", cfg.GRPCPort, "err", err)
		errs <- err
		return
	}

	level.Info(logger).Log("serviceName", cfg.ServiceName, "protocol", "GRPC", "exposed", cfg.GRPCPort)
	errs <- server.Serve(listener)
}

func tlsEnabled(cfg config) bool {
	return fileExists(cfg.TLSCert) && fileExists(cfg.TLSKey)
}

func fileExists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && !fi.IsDir()
}
