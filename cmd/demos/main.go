package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/builder"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/demos"
	snowhttp "github.com/mogud/snowdi/routines/http"
	"github.com/mogud/snowdi/routines/upload"
)

var demoTable = map[string]func(environment string) error{
	"transient-leak": func(string) error {
		report, err := demos.TransientDisposablesWithoutDispose(1000)
		if err != nil {
			return err
		}
		fmt.Printf("created: %v, disposed: %v\n", report.Created, report.Disposed)
		return nil
	},
	"deadlock": func(string) error {
		report, err := demos.DeadLockWithFactories(time.Second)
		if err != nil {
			return err
		}
		fmt.Printf("deadlocked: %v, error: %v\n", report.Deadlocked, demos.Describe(report.Err))
		return nil
	},
	"captive": func(string) error {
		_, err := demos.CaptiveDependency(true)
		fmt.Printf("validate scopes: %v\n", demos.Describe(err))
		a, err := demos.CaptiveDependency(false)
		if err != nil {
			return err
		}
		fmt.Printf("without validation the singleton captures %p\n", a.GetB())
		return nil
	},
	"scoped-singleton": func(string) error {
		_, _, err := demos.ScopedServiceBecomesSingleton(true)
		fmt.Printf("validate scopes: %v\n", demos.Describe(err))
		first, second, err := demos.ScopedServiceBecomesSingleton(false)
		if err != nil {
			return err
		}
		fmt.Printf("without validation the same instance is returned: %v\n", first == second)
		return nil
	},
	"environment": func(environment string) error {
		data, err := demos.EnvironmentSubstitution(environment)
		if err != nil {
			return err
		}
		fmt.Println(data)
		return nil
	},
	"pipeline": func(environment string) error {
		body, err := demos.HelloWorldPipeline()
		if err != nil {
			return err
		}
		fmt.Println(body)
		if body, err = demos.EnvironmentPipeline(environment); err != nil {
			return err
		}
		fmt.Println(body)
		return nil
	},
	"upload": func(environment string) error {
		b := builder.NewDefaultBuilder().UseEnvironment(environment).ConfigureRoutines(func(b host.IBuilder) {
			upload.AddHomeController(b)
			snowhttp.AddServer(b, upload.MapHomeController)
		})
		host.Run(b.Build())
		return nil
	},
}

func main() {
	demo := flag.String("demo", "environment", "transient-leak | deadlock | captive | scoped-singleton | environment | pipeline | upload")
	environment := flag.String("environment", demos.TestEnvironment, "host environment")
	flag.Parse()

	run, ok := demoTable[*demo]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown demo: %v\n", *demo)
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*environment); err != nil {
		slog.Errorf("demo %v failed: %v", *demo, err)
		os.Exit(1)
	}
}
