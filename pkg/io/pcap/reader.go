// Package pcap provides PCAP file reading and network packet feature extraction.
package pcap

import (
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	negio "github.com/hed1ad/negsel/pkg/io"
)

// Reader turns the packets of a capture file into 2D samples.
type Reader struct {
	file      *os.File
	source    *pcapgo.Reader
	extractor *FeatureExtractor
	columns   [2]int
	class     string
}

// Option configures a Reader.
type Option func(*Reader) error

// WithFeatures selects the two features used as coordinates, by name.
// See FeatureExtractor.FeatureNames.
func WithFeatures(x, y string) Option {
	return func(r *Reader) error {
		for i, name := range [2]string{x, y} {
			col := featureIndex(name)
			if col < 0 {
				return errors.Errorf("unknown packet feature %q", name)
			}
			r.columns[i] = col
		}
		return nil
	}
}

// WithClass sets the class string attached to every sample, e.g. the
// self label for a capture of normal traffic.
func WithClass(class string) Option {
	return func(r *Reader) error {
		r.class = class
		return nil
	}
}

// NewFileReader opens a PCAP file. By default samples are
// (packet_size, inter_arrival_time).
func NewFileReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r, err := NewStreamReader(file, opts...)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, filename)
	}
	r.file = file
	return r, nil
}

// NewStreamReader reads a PCAP stream. Close does not close src.
func NewStreamReader(src io.Reader, opts ...Option) (*Reader, error) {
	source, err := pcapgo.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "read pcap header")
	}

	r := &Reader{
		source:    source,
		extractor: NewFeatureExtractor(),
		columns:   [2]int{0, 1},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Read returns one sample per packet.
func (r *Reader) Read() ([]negio.Sample, error) {
	var data []negio.Sample

	for {
		raw, ci, err := r.source.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read packet")
		}

		packet := gopacket.NewPacket(raw, r.source.LinkType(), gopacket.Default)
		packet.Metadata().CaptureInfo = ci

		features := r.extractor.Extract(packet)
		var s negio.Sample
		s.Point[0] = features[r.columns[0]]
		s.Point[1] = features[r.columns[1]]
		s.Class = r.class
		data = append(data, s)
	}

	return data, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// FeatureExtractor extracts numerical features from network packets.
type FeatureExtractor struct {
	lastTimestamp time.Time
}

// NewFeatureExtractor creates a new packet feature extractor.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract converts a packet to a feature vector ordered as FeatureNames.
func (e *FeatureExtractor) Extract(packet gopacket.Packet) []float64 {
	features := make([]float64, len(featureNames))

	// Packet size
	features[0] = float64(len(packet.Data()))

	// Inter-arrival time
	metadata := packet.Metadata()
	if metadata != nil && !metadata.Timestamp.IsZero() {
		if !e.lastTimestamp.IsZero() {
			features[1] = metadata.Timestamp.Sub(e.lastTimestamp).Seconds()
		}
		e.lastTimestamp = metadata.Timestamp
	}

	// Protocol
	if tcpLayer := packet.Layer(layers.LayerTypeTCP); tcpLayer != nil {
		features[2] = 6 // TCP
		tcp := tcpLayer.(*layers.TCP)
		features[3] = float64(tcp.SrcPort)
		features[4] = float64(tcp.DstPort)
		features[5] = encodeTCPFlags(tcp)
	} else if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
		features[2] = 17 // UDP
		udp := udpLayer.(*layers.UDP)
		features[3] = float64(udp.SrcPort)
		features[4] = float64(udp.DstPort)
	} else if packet.Layer(layers.LayerTypeICMPv4) != nil {
		features[2] = 1 // ICMP
	}

	// IP TTL
	if ipLayer := packet.Layer(layers.LayerTypeIPv4); ipLayer != nil {
		ip := ipLayer.(*layers.IPv4)
		features[6] = float64(ip.TTL)
	}

	// Payload size
	if appLayer := packet.ApplicationLayer(); appLayer != nil {
		features[7] = float64(len(appLayer.Payload()))
	}

	return features
}

var featureNames = []string{
	"packet_size",
	"inter_arrival_time",
	"protocol",
	"src_port",
	"dst_port",
	"tcp_flags",
	"ip_ttl",
	"payload_size",
}

// FeatureNames returns the names of extracted features.
func (e *FeatureExtractor) FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

func featureIndex(name string) int {
	for i, n := range featureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// encodeTCPFlags converts TCP flags to a numeric value.
func encodeTCPFlags(tcp *layers.TCP) float64 {
	var flags float64
	if tcp.SYN {
		flags += 1
	}
	if tcp.ACK {
		flags += 2
	}
	if tcp.FIN {
		flags += 4
	}
	if tcp.RST {
		flags += 8
	}
	if tcp.PSH {
		flags += 16
	}
	if tcp.URG {
		flags += 32
	}
	return flags
}
