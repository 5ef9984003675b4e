package cmd

const DESCRIPTION = `
Wakepi arms the PiSugar real-time clock with the nearer of two daily
wake times, waits for the alarm to be persisted, and powers the host
off so the RTC can bring it back up.
`

const (
	RunDescription = `The run command performs the full procedure: verify the
shutdown tooling, take the execution lock, compute the nearer of the
two configured wake times, arm the RTC alarm over the PiSugar socket,
wait out the wind-down interval, and power the host off.

It is also the default action, so an unattended timer can simply
invoke "wakepi".

Example:
        wakepi run --dry-run

`
	NextDescription = `The next command prints the wake timestamp a run would
choose at this moment, along with both candidates. Nothing is sent
and nothing is locked.

Example:
        wakepi next

`
	BatteryDescription = `The battery command queries the PiSugar service for
the current battery charge and prints it as a percentage.

Example:
        wakepi battery

`
	HistoryDescription = `The history command prints recent wake events from
the local event store, newest first.

Example:
        wakepi history --limit 10

`
)
