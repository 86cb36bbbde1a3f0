package middleware

import (
	"github.com/grafana/pyroscope-go"

	"github.com/duynhne/franchise-service/config"
)

const defaultPyroscopeEndpoint = "http://pyroscope.monitoring.svc.cluster.local:4040"

var profiler *pyroscope.Profiler

// InitProfiling starts continuous profiling. The detected Kubernetes service
// name wins over cfg.ServiceName.
func InitProfiling(cfg config.ProfilingConfig) error {
	serviceName, namespace := detectServiceInfo()
	if serviceName == unknownService && cfg.ServiceName != "" {
		serviceName = cfg.ServiceName
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultPyroscopeEndpoint
	}

	var err error
	profiler, err = pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   endpoint,
		Tags: map[string]string{
			"service":   serviceName,
			"namespace": namespace,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
		Logger: pyroscope.StandardLogger,
	})
	return err
}

// StopProfiling stops the profiler if it was started.
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}
