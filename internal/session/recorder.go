package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Trade is one executed (or submitted) order as persisted to the trade record.
type Trade struct {
	Ts         time.Time `json:"ts"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	Qty        int       `json:"qty"`
	Price      float64   `json:"price"`
	Volatility float64   `json:"volatility"`
	OrderType  string    `json:"order_type"`
	Cash       float64   `json:"cash"`
	NetWorth   float64   `json:"net_worth"`
}

// TradeRecorder captures submitted trades for later inspection.
type TradeRecorder interface {
	Record(Trade)
}

// JSONLRecorder appends trades as JSON lines for later analysis.
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewJSONLRecorder creates/opens the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record writes a single trade to the underlying JSONL file.
func (r *JSONLRecorder) Record(trade Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.enc.Encode(trade)
}

// Close flushes and closes the file handle.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
