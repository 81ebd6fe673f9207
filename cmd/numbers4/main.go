package main

import (
	"context"

	"numbers4-backend/cmd/numbers4/commands"
	"numbers4-backend/lib/serviceutil"
	"numbers4-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	// telemetry is optional for a CLI run, absence of telemetry.json5
	// just means spans go nowhere
	tel, err := telemetry.SetupFromEnv(ctx, "numbers4")
	if err == nil {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	commands.ExecuteContext(ctx)
}
