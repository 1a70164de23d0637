package model

// ConfigurationError reports inputs whose structure does not allow a
// repartition: misaligned series or parameter lists that do not match the
// number of producers.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}
