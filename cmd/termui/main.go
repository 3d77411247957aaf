// Command termui is the CLI entry point for the streaming terminal UI core:
// it loads configuration, wires the event loop's collaborators (appstate,
// optional record/playback), and runs the single-threaded draw loop until
// the user quits or the backend context is cancelled.
package main

func main() {
	Execute()
}
