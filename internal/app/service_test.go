package service_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/venkman/internal/adapters/repository"
	service "github.com/okian/venkman/internal/app"
	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// seed writes test/configuration-a with default behavior parameters and a
// zero stimulus rule under root.
func seed(root string) {
	ctx := context.Background()
	store := repository.NewFileStore(root)
	zero, err := rules.NewDocument(rules.KindScaledRun, nil)
	So(err, ShouldBeNil)

	behavior := repository.NewID(repository.CategoryBehavior, "default", "parameters")
	stim := repository.NewID(repository.CategoryStimulus, "test", "zero")
	So(store.Save(ctx, behavior, frame.DefaultParameters()), ShouldBeNil)
	So(store.Save(ctx, stim, zero), ShouldBeNil)
	So(store.Save(ctx, repository.NewID(repository.CategoryConfiguration, "test", "configuration-a"),
		repository.Configuration{Behavior: behavior, Stimulus: &stim}), ShouldBeNil)
}

func TestService_New(t *testing.T) {
	Convey("Given a service without a store or work directory", t, func() {
		svc := service.New(service.WithAddr("127.0.0.1:0"))

		Convey("Then it refuses to start", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrStart), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
			So(svc.Sessions(), ShouldBeEmpty)
			So(svc.Monitor(), ShouldBeNil)

			_, err = svc.ConfigurationNames(context.Background(), "1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a seeded work directory", t, func() {
		workDir := t.TempDir()
		logDir := t.TempDir()
		seed(workDir)

		svc := service.New(
			service.WithAddr("127.0.0.1:0"),
			service.WithWorkDir(workDir),
			service.WithLogDir(logDir),
			service.WithLogWritePause(20*time.Millisecond),
			service.WithItemsToBuffer(0),
			service.WithRandomSeed(3),
			service.WithMonitor(true),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then configurations are listed from the file store", func() {
			names, err := svc.ConfigurationNames(ctx, "1")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"test/configuration-a"})
			So(svc.Monitor(), ShouldNotBeNil)
		})

		Convey("And a tracker runs the reference transcript", func() {
			conn, err := net.Dial("tcp", svc.Addr().String())
			So(err, ShouldBeNil)
			defer conn.Close()
			reader := bufio.NewReader(conn)

			exchange := [][2]string{
				{"<list-configurations-request,1>", "<list-configurations-response,1,200,test/configuration-a>"},
				{"<open-session-request,1,1.0.0,test/configuration-a>", "<open-session-response,1,200,sid-0>"},
				{"<larva-skeleton-request,1,sid-0,22,4,5,6,7,8,9,10,11,12,13,14>", "<larva-skeleton-response,1,200,22,stop,0.0,60>"},
				{"<larva-skeleton-request,1,sid-0,33,4,5,6,7,8,9,10,11,12,13,14>", "<larva-skeleton-response,1,200,33,cast-right,0.0,60>"},
			}
			for _, e := range exchange {
				_, err := io.WriteString(conn, e[0]+"\n")
				So(err, ShouldBeNil)
				line, err := reader.ReadString('\n')
				So(err, ShouldBeNil)
				So(strings.TrimSuffix(line, "\n"), ShouldEqual, e[1])
			}

			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["sessionsActive"], ShouldEqual, 1)
			So(stats["sessionsAccepted"], ShouldEqual, int64(1))
			So(stats["monitorClients"], ShouldEqual, 0)

			_, err = io.WriteString(conn, "<close-session-request,1,sid-0>\n")
			So(err, ShouldBeNil)
			line, err := reader.ReadString('\n')
			So(err, ShouldBeNil)
			So(line, ShouldEqual, "<status-response,1,200,closed session sid-0>\n")

			svc.Stop()
			So(svc.GetStats()["started"], ShouldBeFalse)

			files, err := filepath.Glob(filepath.Join(logDir, "venkman-log-*-sid-0.yaml"))
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)
			data, err := os.ReadFile(files[0])
			So(err, ShouldBeNil)
			So(strings.Count(string(data), "kind: frame"), ShouldEqual, 2)
		})
	})
}
