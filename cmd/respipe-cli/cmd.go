package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	redis "github.com/xenking/respipe"
	"github.com/xenking/respipe/internal/rlog"
)

var rootCmd = &cobra.Command{
	Use:   "respipe-cli",
	Short: "Interactive command-line interface for a Redis server",
	Long: `Interactive command-line interface for a Redis server, built on the
respipe pipelining client.

Examples:
  respipe-cli
  respipe-cli --host 127.0.0.1 --port 6379
  respipe-cli --ask-pass`,
	RunE: runCLI,
}

func init() {
	rootCmd.Flags().String("host", "127.0.0.1", "server host")
	rootCmd.Flags().IntP("port", "p", 6379, "server port")
	rootCmd.Flags().String("socket", "", "UNIX socket path (overrides host/port)")
	rootCmd.Flags().BoolP("ask-pass", "a", false, "prompt for an AUTH password on a raw terminal")
	rootCmd.Flags().Duration("connect-timeout", 5*time.Second, "connection timeout")
	rootCmd.Flags().Bool("no-delay", false, "set TCP_NODELAY on the connection")
	rootCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
}

func runCLI(cmd *cobra.Command, _ []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	socket, _ := cmd.Flags().GetString("socket")
	askPass, _ := cmd.Flags().GetBool("ask-pass")
	connectTimeout, _ := cmd.Flags().GetDuration("connect-timeout")
	noDelay, _ := cmd.Flags().GetBool("no-delay")
	logLevel, _ := cmd.Flags().GetString("log-level")

	rlog.Init(logLevel)

	addr := socket
	if addr == "" {
		addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	var password string
	if askPass {
		pw, err := readPassword()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = pw
	}

	conn, err := redis.Dial(addr, redis.Options{
		ConnectTimeout: connectTimeout,
		Password:       password,
		NoDelay:        noDelay,
		Logger:         rlog.Get(),
	})
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	fmt.Printf("connected to %s\n", addr)
	return repl(conn)
}

// readPassword puts the terminal into raw mode to read a password without
// echoing it, restoring the previous state on return.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Print("password: ")
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// repl reads one line per command, evaluates it against conn, and prints
// the reply in a redis-cli-like form. It understands only a small,
// hand-rolled subset of the menu needed for interactive exploration; it
// is not a general command dispatcher. PING is answered locally with
// PONG; nothing is sent to the server for it.
func repl(conn *redis.Connection) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "QUIT", "EXIT":
			return nil
		case "PING":
			fmt.Println("PONG")
		case "GET":
			if len(fields) != 2 {
				fmt.Println("(error) usage: GET key")
				continue
			}
			s, err := conn.Get(fields[1]).String()
			printResult(s, err)
		case "SET":
			if len(fields) != 3 {
				fmt.Println("(error) usage: SET key value")
				continue
			}
			err := conn.Set(fields[1], fields[2]).Result()
			printResult("OK", err)
		case "DEL":
			if len(fields) < 2 {
				fmt.Println("(error) usage: DEL key [key...]")
				continue
			}
			n, err := conn.Del(fields[1:]...).Result()
			printResult(n, err)
		case "TYPE":
			if len(fields) != 2 {
				fmt.Println("(error) usage: TYPE key")
				continue
			}
			t, err := conn.Type(fields[1])
			printResult(t.String(), err)
		default:
			fmt.Printf("(error) unsupported command %q in this CLI\n", fields[0])
		}
	}
}

func printResult(v interface{}, err error) {
	if err != nil {
		fmt.Printf("(error) %v\n", err)
		return
	}
	fmt.Printf("%v\n", v)
}
