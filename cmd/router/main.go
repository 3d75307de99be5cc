package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/kelseyhightower/envconfig"
	stdopentracing "github.com/opentracing/opentracing-go"
	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"google.golang.org/grpc"

	"github.com/cage1016/adder/pkg/addsvc/transports"
	routertransport "github.com/cage1016/adder/pkg/router/transport"
	"github.com/cage1016/adder/pkg/sd"
)

const envPrefix = "QS_ROUTER"

type config struct {
	ServiceName  string        `envconfig:"SERVICE_NAME" default:"router"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort     string        `envconfig:"HTTP_PORT"`
	GRPCPort     string        `envconfig:"GRPC_PORT"`
	ZipkinV2URL  string        `envconfig:"QS_ZIPKIN_V2_URL"`
	ConsulAddr   string        `envconfig:"QS_CONSUL_ADDR"`
	RetryMax     int           `envconfig:"RETRY_MAX" default:"3"`
	RetryTimeout time.Duration `envconfig:"RETRY_TIMEOUT" default:"500ms"`
	AddsvcURL    string        `envconfig:"QS_ADDSVC_URL"`
	AddsvcName   string        `envconfig:"QS_ADDSVC_SERVICE_NAME" default:"addsvc"`
	AddsvcAPIKey string        `envconfig:"QS_ADDSVC_API_KEY"`
	APIKey       string        `envconfig:"API_KEY"`
	ExemptPaths  []string      `envconfig:"EXEMPT_PATHS"`
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

	ctx := context.Background()
	errs := make(chan error, 2)

	backend := routertransport.Backend{Target: cfg.AddsvcURL}
	if cfg.ConsulAddr != "" {
		client, err := sd.NewClient(cfg.ConsulAddr)
		if err != nil {
			level.Error(logger).Log("consul", cfg.ConsulAddr, "err", err)
			os.Exit(1)
		}
		instancer := sd.NewInstancer(client, cfg.AddsvcName, nil, logger)
		defer instancer.Stop()
		backend.Instancer = instancer
		level.Info(logger).Log("discovery", "consul", "addr", cfg.ConsulAddr, "backend", cfg.AddsvcName)
	}

	opts := routertransport.Options{
		APIKey:       cfg.AddsvcAPIKey,
		RetryMax:     cfg.RetryMax,
		RetryTimeout: cfg.RetryTimeout,
		HTTP:         transports.Config{APIKey: cfg.APIKey, ExemptPaths: cfg.ExemptPaths},
	}
	r := routertransport.MakeHandler(ctx, backend, opts, tracer, zipkinTracer, logger)

	director := routertransport.NewDirector(map[string]routertransport.Backend{"addsvc": backend}, zipkinTracer, logger)
	defer director.Close()

	go startHTTPServer(r, cfg.HTTPPort, logger, errs)
	go startGRPCServer(routertransport.NewGRPCProxy(director, zipkinTracer), cfg.GRPCPort, logger, errs)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	errc := <-errs
	level.Info(logger).Log("serviceName", cfg.ServiceName, "terminated", errc)
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

func startHTTPServer(handler http.Handler, port string, logger log.Logger, errs chan error) {
	if port == "" {
		return
	}
	p := fmt.Sprintf(":%s", port)
	level.Info(logger).Log("protocol", "HTTP", "exposed", port)
	errs <- http.ListenAndServe(p, handler)
}

func startGRPCServer(server *grpc.Server, port string, logger log.Logger, errs chan error) {
	if port == "" {
		return
	}
	p := fmt.Sprintf(":%s", port)
	listener, err := net.Listen("tcp", p)
	if err != nil {
		level.Error(logger).Log("GRPC", "proxy", "listen", port, "err", err)
		errs <- err
		return
	}

	level.Info(logger).Log("GRPC", "proxy", "exposed", port)
	errs <- server.Serve(listener)
}
