package redis

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// fakeServer plays the Redis side of a *Connection under test over one end
// of a net.Pipe. It decodes real RESP request frames (so pipelining and
// ordering bugs in the client show up as real protocol mismatches) and
// answers them with scripted or rule-based replies.
type fakeServer struct {
	conn net.Conn
	r    *bufio.Reader

	mu       sync.Mutex
	store    map[string]string
	handlers map[string]func(args []string) string
}

func newFakeServer(side net.Conn) *fakeServer {
	s := &fakeServer{
		conn:  side,
		r:     bufio.NewReader(side),
		store: make(map[string]string),
	}
	s.handlers = map[string]func(args []string) string{
		"SET": func(a []string) string {
			s.store[a[0]] = a[1]
			return "+OK\r\n"
		},
		"GET": func(a []string) string {
			v, ok := s.store[a[0]]
			if !ok {
				return "$-1\r\n"
			}
			return bulk(v)
		},
	}
	return s
}

// serveOne reads exactly one RESP request frame and returns its argv
// (including the command name at index 0).
func (s *fakeServer) serveOne() ([]string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 || line[0] != '*' {
		return nil, fmt.Errorf("fakeServer: expected '*' request header, got %q", line)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}
	argv := make([]string, n)
	for i := 0; i < n; i++ {
		hdr, err := s.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		hdr = strings.TrimRight(hdr, "\r\n")
		if len(hdr) == 0 || hdr[0] != '$' {
			return nil, fmt.Errorf("fakeServer: expected '$' bulk header, got %q", hdr)
		}
		blen, err := strconv.Atoi(hdr[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, blen+2)
		if _, err := s._readFull(buf); err != nil {
			return nil, err
		}
		argv[i] = string(buf[:blen])
	}
	return argv, nil
}

func (s *fakeServer) _readFull(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := s.r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// respond runs the default handler table (falling back to a generic
// +OK) for exactly one incoming request.
func (s *fakeServer) respond() error {
	argv, err := s.serveOne()
	if err != nil {
		return err
	}
	cmd := strings.ToUpper(argv[0])
	reply := "+OK\r\n"
	if h, ok := s.handlers[cmd]; ok {
		reply = h(argv[1:])
	}
	_, err = s.conn.Write([]byte(reply))
	return err
}

// write sends raw scripted bytes, bypassing the handler table — used when
// a test wants to dictate the exact wire reply (e.g. transaction scenarios).
func (s *fakeServer) write(raw string) error {
	_, err := s.conn.Write([]byte(raw))
	return err
}

func bulk(v string) string {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
}

// newTestConnection dials a *Connection over one end of a net.Pipe and
// returns it along with the fakeServer driving the other end.
func newTestConnection() (*Connection, *fakeServer) {
	client, server := net.Pipe()
	fs := newFakeServer(server)
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	c := &Connection{
		transport: &transport{
			conn: client,
			w:    bufio.NewWriter(client),
			r:    bufio.NewReader(client),
		},
		log: silent,
	}
	return c, fs
}
