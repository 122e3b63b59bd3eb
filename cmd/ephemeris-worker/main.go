// Command ephemeris-worker is the isolated subprocess the pool spawns: it
// opens exactly one kernel bundle, then evaluates compute.Request jobs read
// from stdin and writes workerproto results to stdout until told to stop.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/workerproto"
)

func main() {
	bundleID := flag.String("bundle", "", "kernel bundle id to open")
	manifestPath := flag.String("manifest", "config/kernels.yaml", "path to the kernel manifest")
	ayanamshaPath := flag.String("ayanamsha", "config/ayanamshas.yaml", "path to the ayanamsha registry")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(*bundleID, *manifestPath, *ayanamshaPath, os.Stdin, os.Stdout, log); err != nil {
		log.WithError(err).Error("worker exiting on error")
		os.Exit(1)
	}
}

func run(bundleID, manifestPath, ayanamshaPath string, stdin io.Reader, stdout io.Writer, log *logrus.Logger) error {
	if bundleID == "" {
		return fmt.Errorf("ephemeris-worker: --bundle is required")
	}

	manifest, err := kernel.LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	mgr := kernel.NewManager(manifest)
	handle, err := mgr.Open(bundleID)
	if err != nil {
		return fmt.Errorf("open bundle %s: %w", bundleID, err)
	}
	defer handle.Release()

	reg, err := ayanamsha.Load(ayanamshaPath)
	if err != nil {
		return fmt.Errorf("load ayanamsha registry: %w", err)
	}

	core := compute.NewCore(compute.NewBundleNative(handle), reg)

	if err := workerproto.WriteMessage(stdout, workerproto.Message{Kind: workerproto.KindReady}); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	r := bufio.NewReader(stdin)
	for {
		msg, err := workerproto.ReadMessage(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Kind {
		case workerproto.KindJob:
			if err := handleJob(core, msg, stdout); err != nil {
				log.WithError(err).Warn("failed to write job reply")
			}
		case workerproto.KindShutdown:
			return nil
		default:
			log.WithField("kind", msg.Kind).Warn("unexpected message kind, ignoring")
		}
	}
}

func handleJob(core *compute.Core, msg workerproto.Message, stdout io.Writer) error {
	var payload workerproto.JobPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return workerproto.WriteMessage(stdout, errorMessage(err))
	}

	result, err := core.Evaluate(payload.Request)
	if err != nil {
		return workerproto.WriteMessage(stdout, errorMessage(err))
	}

	body, err := json.Marshal(workerproto.ResultPayload{Result: result})
	if err != nil {
		return workerproto.WriteMessage(stdout, errorMessage(err))
	}
	return workerproto.WriteMessage(stdout, workerproto.Message{Kind: workerproto.KindResult, Payload: body})
}

func errorMessage(err error) workerproto.Message {
	mapped := apierr.Map(err)
	body, _ := json.Marshal(workerproto.ErrorPayload{Code: string(mapped.Code), Message: err.Error()})
	return workerproto.Message{Kind: workerproto.KindError, Payload: body}
}
