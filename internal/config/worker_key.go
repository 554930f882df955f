package config

type WorkerKeyStruct struct {
	MonitorPublishTries int
}

var WorkerKey = &WorkerKeyStruct{
	MonitorPublishTries: 3,
}
