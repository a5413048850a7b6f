package catalog

import "github.com/pulseboard/pulseboard/internal/catalog/domain"

// BuiltinDefinitions is the host telemetry catalog: one entry per signal,
// iterated by the poller once per tick.
func BuiltinDefinitions() []domain.Definition {
	return []domain.Definition{
		{Name: "LOAD_AVERAGE", SourceQuery: "node_load1"},
		{Name: "NODE_CPU_SECONDS_TOTAL", SourceQuery: `sum(node_cpu_seconds_total)`},
		{Name: "NODE_CPU_USAGE_PERCENT", SourceQuery: `100 - (avg(rate(node_cpu_seconds_total{mode="idle"}[1m])) * 100)`},
		{Name: "NODE_MEMORY_MEMFREE_BYTES", SourceQuery: "node_memory_MemFree_bytes"},
		{Name: "NODE_MEMORY_TOTAL_BYTES", SourceQuery: "node_memory_MemTotal_bytes"},
		{Name: "NODE_MEMORY_USAGE_PERCENT", SourceQuery: `(1 - (node_memory_MemAvailable_bytes / node_memory_MemTotal_bytes)) * 100`},
		{Name: "NODE_DISK_USAGE_PERCENT", SourceQuery: `(1 - node_filesystem_avail_bytes{mountpoint="/"} / node_filesystem_size_bytes{mountpoint="/"}) * 100`},
		{Name: "NODE_DISK_IO_TIME", SourceQuery: `sum(rate(node_disk_io_time_seconds_total[1m]))`},
		{Name: "NODE_DISK_READ_BYTES", SourceQuery: `sum(rate(node_disk_read_bytes_total[1m]))`},
		{Name: "NODE_DISK_WRITE_BYTES", SourceQuery: `sum(rate(node_disk_written_bytes_total[1m]))`},
		{Name: "NODE_NETWORK_RECEIVE_BYTES", SourceQuery: `sum(rate(node_network_receive_bytes_total{device!="lo"}[1m]))`},
		{Name: "NODE_NETWORK_TRANSMIT_BYTES", SourceQuery: `sum(rate(node_network_transmit_bytes_total{device!="lo"}[1m]))`},
		{Name: "NODE_PROCESS_COUNT", SourceQuery: "node_procs_running"},
		{Name: "NODE_UPTIME", SourceQuery: "time() - node_boot_time_seconds"},
	}
}
