// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package malloc

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsAllocator reports allocation volume of its upstream to prometheus.
type MetricsAllocator[U Allocator] struct {
	upstream        U
	deallocatorPool *ClosureDeallocatorPool[metricsDeallocatorArgs, *metricsDeallocatorArgs]

	allocateBytesCounter   prometheus.Counter
	inuseBytesGauge        prometheus.Gauge
	allocateObjectsCounter prometheus.Counter
	inuseObjectsGauge      prometheus.Gauge

	inuseBytes atomic.Int64
	peak       *PeakInuseTracker
}

type metricsDeallocatorArgs struct {
	size uint64
}

func (metricsDeallocatorArgs) As(Trait) bool {
	return false
}

func NewMetricsAllocator[U Allocator](
	upstream U,
	allocateBytesCounter prometheus.Counter,
	inuseBytesGauge prometheus.Gauge,
	allocateObjectsCounter prometheus.Counter,
	inuseObjectsGauge prometheus.Gauge,
) *MetricsAllocator[U] {

	var ret *MetricsAllocator[U]

	ret = &MetricsAllocator[U]{
		upstream:               upstream,
		allocateBytesCounter:   allocateBytesCounter,
		inuseBytesGauge:        inuseBytesGauge,
		allocateObjectsCounter: allocateObjectsCounter,
		inuseObjectsGauge:      inuseObjectsGauge,
		peak:                   NewPeakInuseTracker(),

		deallocatorPool: NewClosureDeallocatorPool(
			func(hints Hints, args *metricsDeallocatorArgs) {
				ret.inuseBytes.Add(-int64(args.size))
				if ret.inuseBytesGauge != nil {
					ret.inuseBytesGauge.Sub(float64(args.size))
				}
				if ret.inuseObjectsGauge != nil {
					ret.inuseObjectsGauge.Dec()
				}
			},
		),
	}

	return ret
}

var _ Allocator = new(MetricsAllocator[Allocator])

func (m *MetricsAllocator[U]) Allocate(size uint64, hints Hints) ([]byte, Deallocator, error) {
	ptr, dec, err := m.upstream.Allocate(size, hints)
	if err != nil {
		return nil, nil, err
	}
	if m.allocateBytesCounter != nil {
		m.allocateBytesCounter.Add(float64(size))
	}
	if m.inuseBytesGauge != nil {
		m.inuseBytesGauge.Add(float64(size))
	}
	if m.allocateObjectsCounter != nil {
		m.allocateObjectsCounter.Inc()
	}
	if m.inuseObjectsGauge != nil {
		m.inuseObjectsGauge.Inc()
	}
	m.peak.Update(uint64(m.inuseBytes.Add(int64(size))))

	return ptr, ChainDeallocator(
		dec,
		m.deallocatorPool.Get(metricsDeallocatorArgs{
			size: size,
		}),
	), nil
}

// InuseBytes returns bytes allocated and not yet deallocated.
func (m *MetricsAllocator[U]) InuseBytes() int64 {
	return m.inuseBytes.Load()
}

// PeakInuseBytes returns the high water mark of InuseBytes.
func (m *MetricsAllocator[U]) PeakInuseBytes() uint64 {
	v, _ := m.peak.Peak()
	return v
}

// Metrics bundles the collectors a MetricsAllocator writes to.
type Metrics struct {
	AllocateBytes   prometheus.Counter
	InuseBytes      prometheus.Gauge
	AllocateObjects prometheus.Counter
	InuseObjects    prometheus.Gauge
}

// NewMetrics creates the allocator collectors under namespace and registers
// them with reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		AllocateBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "malloc",
			Name:      "allocate_bytes_total",
			Help:      "Total bytes allocated.",
		}),
		InuseBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "malloc",
			Name:      "inuse_bytes",
			Help:      "Bytes allocated and not yet freed.",
		}),
		AllocateObjects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "malloc",
			Name:      "allocate_objects_total",
			Help:      "Total blocks allocated.",
		}),
		InuseObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "malloc",
			Name:      "inuse_objects",
			Help:      "Blocks allocated and not yet freed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.AllocateBytes, m.InuseBytes, m.AllocateObjects, m.InuseObjects)
	}
	return m
}

// Wrap returns upstream instrumented with m.
func Wrap[U Allocator](upstream U, m *Metrics) *MetricsAllocator[U] {
	return NewMetricsAllocator(upstream, m.AllocateBytes, m.InuseBytes, m.AllocateObjects, m.InuseObjects)
}
