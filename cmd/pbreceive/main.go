package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
)

// config holds the parsed CLI configuration for a receive run.
type config struct {
	host string
	port int
	raw  bool
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.host, "host", "0.0.0.0", "address to bind")
	flag.IntVar(&cfg.port, "port", 9000, "UDP port to listen on")
	flag.BoolVar(&cfg.raw, "raw", false, "print raw datagram payloads instead of decoded summaries")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pbreceive [flags]\n\n")
		fmt.Fprintf(os.Stderr, "pbreceive listens for bridge datagrams and prints each packet,\n")
		fmt.Fprintf(os.Stderr, "one line per datagram. Run it on the lab PC to verify traffic.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if cfg.port < 1 || cfg.port > 65535 {
		fmt.Fprintln(os.Stderr, "error: --port must be 1-65535")
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}

func run(cfg config) error {
	recv, err := udp.Listen(cfg.host, cfg.port)
	if err != nil {
		return err
	}
	defer recv.Close()
	log.Printf("listening on %s", recv.Addr())

	for {
		pkt, from, wire, err := recv.Next()
		if err != nil {
			// from is nil on socket-level errors, set on decode failures.
			if from == nil {
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}
			log.Printf("%s  undecodable (%v): %s", from, err, wire)
			continue
		}
		if cfg.raw {
			log.Printf("%s  %s", from, wire)
			continue
		}
		log.Printf("%s  %s", from, summarize(pkt))
	}
}

// summarize renders one packet as a single log line.
func summarize(p udp.Packet) string {
	switch v := p.(type) {
	case udp.SamplePacket:
		return fmt.Sprintf("%-7s sub=%s dev=%s sq=%d n=%d %s",
			v.Type, orAnon(v.Subject), v.DeviceID, v.Seq, len(v.Values), stamp(v.Timestamp))
	case udp.MarkerPacket:
		return fmt.Sprintf("marker  sub=%s label=%q off=%s %s",
			orAnon(v.Subject), v.Label, time.Duration(v.OffsetMS)*time.Millisecond, stamp(v.Timestamp))
	case udp.LifecyclePacket:
		return fmt.Sprintf("session sub=%s ev=%s sid=%s %s",
			orAnon(v.Subject), v.Event, v.SessionID, stamp(v.Timestamp))
	default:
		return fmt.Sprintf("%s packet", p.Tag())
	}
}

func orAnon(subject string) string {
	if subject == "" {
		return "anon"
	}
	return subject
}

func stamp(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Local().Format("15:04:05.000")
}

func main() {
	log.SetFlags(0)
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "pbreceive: %v\n", err)
		os.Exit(1)
	}
}
