// Package telemetry exposes Prometheus collectors for an NJE session:
// frames and bytes moved in each direction, heartbeats exchanged, and
// handshake/signon outcomes. One Collectors is meant to live for the
// lifetime of a Session, labelled with the session's xid so several
// concurrent sessions can be told apart on the same registry.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Collectors groups the metrics a Session reports.
type Collectors struct {
	FramesSent     prometheus.Counter
	FramesRecv     prometheus.Counter
	BytesSent      prometheus.Counter
	BytesRecv      prometheus.Counter
	Heartbeats     prometheus.Counter
	HandshakeFails prometheus.Counter
	Signons        prometheus.Counter
}

// NewCollectors builds and registers a Collectors labelled with
// sessionID against reg. Passing a fresh prometheus.NewRegistry() per
// session avoids collisions between the default global registry's
// label cardinality and short-lived sessions.
func NewCollectors(reg prometheus.Registerer, sessionID string) (*Collectors, error) {
	labels := prometheus.Labels{"session": sessionID}

	c := &Collectors{
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_frames_sent_total",
			Help:        "TTB frames sent to the peer.",
			ConstLabels: labels,
		}),
		FramesRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_frames_received_total",
			Help:        "TTB frames received from the peer.",
			ConstLabels: labels,
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_bytes_sent_total",
			Help:        "Raw bytes written to the transport.",
			ConstLabels: labels,
		}),
		BytesRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_bytes_received_total",
			Help:        "Raw bytes read from the transport.",
			ConstLabels: labels,
		}),
		Heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_heartbeats_total",
			Help:        "Heartbeat records exchanged in either direction.",
			ConstLabels: labels,
		}),
		HandshakeFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_handshake_failures_total",
			Help:        "Handshake attempts rejected by a non-zero R byte in the OPEN reply.",
			ConstLabels: labels,
		}),
		Signons: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "nje_signons_total",
			Help:        "Successful signons completed.",
			ConstLabels: labels,
		}),
	}

	collectors := []prometheus.Collector{
		c.FramesSent, c.FramesRecv, c.BytesSent, c.BytesRecv,
		c.Heartbeats, c.HandshakeFails, c.Signons,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}
