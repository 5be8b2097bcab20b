package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"household-ledger/internal/biz"
	"household-ledger/internal/conf"
	"household-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	_ "go.uber.org/automaxprocs"
)

// BackfillApp 一次性回填应用
type BackfillApp struct {
	backfill *biz.BackfillUseCase
}

var (
	flagconf   string
	flagdomain string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagdomain, "domain", constants.DomainAll,
		"electricity|water|gas|fuel|carbon|safe_limits|all")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	bc, closeConf, err := conf.Load(flagconf)
	if err != nil {
		log.Errorf("load config %s: %v", flagconf, err)
		return 1
	}
	defer closeConf()

	loggerInstance := log.With(newLogger(bc.Log),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "household-ledger-backfill",
	)
	logHelper := log.NewHelper(loggerInstance)

	app, cleanup, err := wireApp(bc, loggerInstance)
	if err != nil {
		logHelper.Errorf("init backfill: %v", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reports []*biz.SweepReport
	if flagdomain == constants.DomainAll {
		reports, err = app.backfill.SweepAll(ctx)
	} else {
		var report *biz.SweepReport
		report, err = app.backfill.Sweep(ctx, flagdomain)
		if report != nil {
			reports = append(reports, report)
		}
	}

	for _, r := range reports {
		logHelper.Infof("%s: today=%s, users=%d, current=%d, skipped=%d, failed=%d, inserted=%d, duplicate=%d, rows=%d, faults=%d",
			r.Domain, r.Today.Format(constants.TimeFormatDate), r.Users, r.UsersCurrent, r.UsersSkipped,
			r.UsersFailed, r.DaysInserted, r.DaysDuplicate, r.RowsInserted, r.Faults)
	}
	if err != nil {
		logHelper.Errorf("backfill %s failed: %v", flagdomain, err)
		return 1
	}
	return 0
}
