package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestScanCounters(t *testing.T) {
	s := NewScan()

	s.ObserveSegment()
	s.ObserveRecord()
	s.ObserveRecord()
	s.ObserveRecord()
	s.ObserveIncluded("CREATE")
	s.ObserveIncluded("CREATE")
	s.ObserveSkipped()
	s.ObserveStop()
	s.ObserveTotals(31923, 3, 1710181842, 1710183175)

	if got := testutil.ToFloat64(s.RecordsRead); got != 3 {
		t.Errorf("expected records read=3, got %f", got)
	}
	if got := testutil.ToFloat64(s.Operations.WithLabelValues("CREATE")); got != 2 {
		t.Errorf("expected CREATE=2, got %f", got)
	}
	if got := testutil.ToFloat64(s.RecordsSkipped); got != 1 {
		t.Errorf("expected skipped=1, got %f", got)
	}
	if got := testutil.ToFloat64(s.Stopped); got != 1 {
		t.Errorf("expected stopped=1, got %f", got)
	}
	if got := testutil.ToFloat64(s.WrittenBytes); got != 31923 {
		t.Errorf("expected written=31923, got %f", got)
	}
}

func TestNilScanIsNoop(t *testing.T) {
	var s *Scan
	s.ObserveSegment()
	s.ObserveRecord()
	s.ObserveIncluded("WRITE")
	s.ObserveSkipped()
	s.ObserveStop()
	s.ObserveTotals(1, 1, 0, 0)
}

func TestWriteTextfile(t *testing.T) {
	s := NewScan()
	s.ObserveIncluded("UNLINK")

	path := filepath.Join(t.TempDir(), "sfsquery.prom")
	if err := s.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `sfsquery_operations_total{operation="UNLINK"} 1`) {
		t.Errorf("expected operation counter in textfile, got:\n%s", data)
	}
}

func TestRegistryOperationSeries(t *testing.T) {
	s := NewScan()
	s.ObserveIncluded("CREATE")
	s.ObserveIncluded("WRITE")
	s.ObserveIncluded("CREATE")

	n, err := testutil.GatherAndCount(s.Registry(), "sfsquery_operations_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 operation series, got %d", n)
	}
}
