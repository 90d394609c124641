package dashboard

import "fmt"

// ConnectivityError reports that the startup health check failed.
type ConnectivityError struct {
	Status string
	Err    error
}

func (e *ConnectivityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	return fmt.Sprintf("backend unhealthy: status %q", e.Status)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// DataLoadError reports a failed page load.
type DataLoadError struct {
	Page Page
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load %s data: %v", e.Page, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// PollingTickError reports a failed refresh tick. It is logged, never shown.
type PollingTickError struct {
	Err error
}

func (e *PollingTickError) Error() string {
	return fmt.Sprintf("polling tick: %v", e.Err)
}

func (e *PollingTickError) Unwrap() error { return e.Err }
