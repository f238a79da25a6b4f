// Command pathkvctl is a small inspection/admin CLI over pkg/store: a
// cobra root command with verbose/quiet/json global flags and one file
// per subcommand.
package main

func main() {
	execute()
}
