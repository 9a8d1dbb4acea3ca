// waxipay — консольный клиент WaxiPay: аутентификация, кошелёк,
// история операций и инициализация платежей через фасад SDK.
//
// Использование:
//
//	waxipay [--config path] <command> [flags]
//
// Команды: login, register, logout, status, profile, wallet,
// transactions, stats, pay, payout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waxipay/go-waxipay/internal/client"
	"github.com/waxipay/go-waxipay/internal/config"
	"github.com/waxipay/go-waxipay/internal/metrics"
	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/service"
	"github.com/waxipay/go-waxipay/internal/session"
	"github.com/waxipay/go-waxipay/internal/store"
	filestore "github.com/waxipay/go-waxipay/internal/store/file"
	redisstore "github.com/waxipay/go-waxipay/internal/store/redis"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	st, err := openStore(rootCtx, cfg)
	if err != nil {
		log.Error("store_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("store_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	sess := session.New(st)
	api := client.New(cfg.API.BaseURL, cfg.API.Timeout, sess, setupMetrics(cfg, log))
	svc := service.New(api, sess)

	if err := run(rootCtx, svc, sess, flag.Args()); err != nil {
		os.Exit(1)
	}
}

// setupMetrics поднимает эндпоинт /metrics, если в конфиге задан адрес.
// Без адреса возвращает nil: клиент работает без счётчиков.
func setupMetrics(cfg *config.Config, log *slog.Logger) *metrics.Metrics {
	if cfg.Metrics.Addr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			log.Warn("metrics_listener_failed", slog.String("err", err.Error()))
		}
	}()

	log.Info("metrics_listening", slog.String("addr", cfg.Metrics.Addr))

	return m
}

// openStore выбирает бэкенд хранилища учётных данных по конфигу.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		return redisstore.New(ctx, cfg.Store.RedisURL, cfg.Store.RedisKey)
	case config.StoreFile:
		return filestore.New(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// run разбирает команду и выполняет её через фасад.
func run(ctx context.Context, svc *service.Service, sess *session.Manager, args []string) error {
	cmd, rest := args[0], args[1:]

	// Команды, которым нужна восстановленная сессия, получают её здесь;
	// login/register/status обходятся без неё.
	switch cmd {
	case "logout", "profile", "wallet", "transactions", "stats", "pay", "payout":
		if _, err := svc.LoadSession(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Vous n'êtes pas connecté. Utilisez: waxipay login")
			return err
		}
	}

	switch cmd {
	case "login":
		return cmdLogin(ctx, svc, rest)
	case "register":
		return cmdRegister(ctx, svc, rest)
	case "logout":
		return cmdLogout(ctx, svc)
	case "status":
		return cmdStatus(ctx, svc, sess)
	case "profile":
		return report(svc.Profile(ctx))(service.FallbackGeneric)
	case "wallet":
		return report(svc.Wallet(ctx))(service.FallbackGeneric)
	case "transactions":
		return cmdTransactions(ctx, svc, rest)
	case "stats":
		return report(svc.Stats(ctx))(service.FallbackGeneric)
	case "pay":
		return cmdPay(ctx, svc, rest)
	case "payout":
		return cmdPayout(ctx, svc, rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdLogin(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	sess, err := svc.Login(ctx, *phone, *password)
	if err != nil {
		fail(err, service.FallbackLogin)
		return err
	}

	fmt.Printf("Connecté: %s (%s)\n", sess.User.FullName, sess.User.PhoneNumber)
	return nil
}

func cmdRegister(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email (optional)")
	name := fs.String("name", "", "full name")
	userType := fs.String("type", models.UserTypeIndividual, "user type: driver|merchant|deliverer|individual")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	_ = fs.Parse(args)

	sess, err := svc.Register(ctx, models.RegisterRequest{
		PhoneNumber:     *phone,
		Email:           *email,
		FullName:        *name,
		UserType:        *userType,
		Password:        *password,
		PasswordConfirm: *confirm,
	})
	if err != nil {
		fail(err, service.FallbackRegister)
		return err
	}

	fmt.Printf("Inscription réussie: %s\n", sess.User.FullName)
	return nil
}

func cmdLogout(ctx context.Context, svc *service.Service) error {
	if err := svc.Logout(ctx); err != nil {
		fail(err, service.FallbackGeneric)
		return err
	}

	fmt.Println("Déconnecté.")
	return nil
}

func cmdStatus(ctx context.Context, svc *service.Service, sess *session.Manager) error {
	if _, err := svc.LoadSession(ctx); err != nil {
		if errors.Is(err, service.ErrNoSession) {
			fmt.Println("Non connecté.")
			return nil
		}

		fail(err, service.FallbackGeneric)
		return err
	}

	snap := sess.Snapshot()
	fmt.Printf("Connecté: %s (%s)\n", snap.User.FullName, snap.User.PhoneNumber)

	if exp, ok := session.AccessExpiry(snap.Tokens.Access); ok {
		fmt.Printf("Access-token expire: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

func cmdTransactions(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	txType := fs.String("type", "", "filter by transaction type")
	status := fs.String("status", "", "filter by status")
	method := fs.String("method", "", "filter by payment method")
	_ = fs.Parse(args)

	list, err := svc.Transactions(ctx, models.TransactionFilter{
		Type:          *txType,
		Status:        *status,
		PaymentMethod: *method,
	})
	if err != nil {
		fail(err, service.FallbackGeneric)
		return err
	}

	return printJSON(list)
}

func cmdPay(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	amount := fs.String("amount", "", "amount")
	method := fs.String("method", models.PayMethodWave, "payment method")
	desc := fs.String("desc", "", "description (optional)")
	_ = fs.Parse(args)

	resp, err := svc.InitiatePayment(ctx, models.PaymentRequest{
		Amount:        *amount,
		PaymentMethod: *method,
		Description:   *desc,
	})
	if err != nil {
		fail(err, service.FallbackPayment)
		return err
	}

	fmt.Printf("Référence: %s\nOuvrez pour payer: %s\n", resp.Reference, resp.PaymentURL)
	return nil
}

func cmdPayout(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("payout", flag.ExitOnError)
	amount := fs.String("amount", "", "amount")
	recipient := fs.String("to", "", "recipient phone")
	method := fs.String("method", models.PayMethodWave, "payment method")
	desc := fs.String("desc", "", "description (optional)")
	_ = fs.Parse(args)

	resp, err := svc.InitiatePayout(ctx, models.PayoutRequest{
		Amount:         *amount,
		RecipientPhone: *recipient,
		PaymentMethod:  *method,
		Description:    *desc,
	})
	if err != nil {
		fail(err, service.FallbackPayout)
		return err
	}

	fmt.Printf("Retrait initié, référence: %s\n", resp.Reference)
	return nil
}

// report — общий хвост команд вида «получили значение — напечатали JSON».
func report[T any](value T, err error) func(fallback string) error {
	return func(fallback string) error {
		if err != nil {
			fail(err, fallback)
			return err
		}

		return printJSON(value)
	}
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// fail печатает человекочитаемое сообщение и логирует системные ошибки.
// Ошибки валидации системными не считаются и в лог не попадают.
func fail(err error, fallback string) {
	fmt.Fprintln(os.Stderr, service.UserMessage(err, fallback))

	if !service.IsValidation(err) {
		slog.Error("command_failed", slog.String("err", err.Error()))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: waxipay [--config path] <command> [flags]

commands:
  login        --phone --password
  register     --phone --name --type --password --confirm [--email]
  logout
  status
  profile
  wallet
  transactions [--type --status --method]
  stats
  pay          --amount [--method --desc]
  payout       --amount --to [--method --desc]`)
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
