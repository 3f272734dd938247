package config

// TuningSpec is the socket tuning block a profile may carry. Zero values
// leave the kernel defaults untouched.
type TuningSpec struct {
	RecvBuffer int `yaml:"recvBuffer"`
	SendBuffer int `yaml:"sendBuffer"`
}
