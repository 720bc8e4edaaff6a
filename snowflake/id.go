package snowflake

import (
	"math/rand"
	"sync"
	"time"

	"github.com/spacedock/spacedock/kit/platform"
)

const (
	epoch = 1491696000000 // 2017-04-09T00:00:00Z in unix milliseconds

	machineBits  = 10
	sequenceBits = 12

	machineMask  = (1 << machineBits) - 1
	sequenceMask = (1 << sequenceBits) - 1
)

// Generator produces roughly time-ordered unique 64 bit integers.
// The layout is 41 bits of milliseconds since the epoch, 10 bits of
// machine ID and a 12 bit per-millisecond sequence.
type Generator struct {
	mu        sync.Mutex
	machineID uint64
	lastTime  uint64
	sequence  uint64
}

// New returns a Generator for the provided machine ID. Only the low
// 10 bits of machineID are used.
func New(machineID int) *Generator {
	return &Generator{
		machineID: uint64(machineID) & machineMask,
	}
}

// Next returns the next unique integer from the generator.
func (g *Generator) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := uint64(time.Now().UnixMilli() - epoch)
	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & sequenceMask
		if g.sequence == 0 {
			// sequence exhausted for this millisecond, spin to the next one
			for now <= g.lastTime {
				now = uint64(time.Now().UnixMilli() - epoch)
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return now<<(machineBits+sequenceBits) | g.machineID<<sequenceBits | g.sequence
}

// IDGenerator holds the ID generator.
type IDGenerator struct {
	Generator *Generator
}

// IDGeneratorOp is an option for an IDGenerator.
type IDGeneratorOp func(*IDGenerator)

// WithMachineID uses the low 10 bits of machineID to set the machine ID for the snowflake ID.
func WithMachineID(machineID int) IDGeneratorOp {
	return func(g *IDGenerator) {
		g.Generator = New(machineID & machineMask)
	}
}

// NewIDGenerator returns a new IDGenerator. Optionally you can use an IDGeneratorOp
// to use a specific Generator.
func NewIDGenerator(opts ...IDGeneratorOp) *IDGenerator {
	gen := &IDGenerator{}
	for _, f := range opts {
		f(gen)
	}
	if gen.Generator == nil {
		gen.Generator = New(rand.Intn(machineMask))
	}
	return gen
}

// ID returns the next platform.ID from an IDGenerator.
func (g *IDGenerator) ID() platform.ID {
	var id platform.ID
	for !id.Valid() {
		id = platform.ID(g.Generator.Next())
	}
	return id
}
