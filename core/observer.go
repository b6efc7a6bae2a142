package core

// Stage identifies a value produced by the Run pipeline.
type Stage int

const (
	StageWavelength Stage = iota
	StageLinkDistance
	StageTransmitPowerDBm
	StageTransmitEIRP
	StageDownlinkPathLoss
	StageRequiredEbNo
	StageReceivedPower
	StageMinimumDetectableSignal
	StageEnergyNoiseRatio
	StageLinkMargin
)

var stageNames = [...]string{
	StageWavelength:              "wavelength",
	StageLinkDistance:            "link_distance",
	StageTransmitPowerDBm:        "transmit_power_dbm",
	StageTransmitEIRP:            "transmit_eirp",
	StageDownlinkPathLoss:        "downlink_path_loss",
	StageRequiredEbNo:            "required_ebno",
	StageReceivedPower:           "received_power",
	StageMinimumDetectableSignal: "minimum_detectable_signal",
	StageEnergyNoiseRatio:        "energy_noise_ratio",
	StageLinkMargin:              "link_margin",
}

var stageUnits = [...]string{
	StageWavelength:              "m",
	StageLinkDistance:            "m",
	StageTransmitPowerDBm:        "dBm",
	StageTransmitEIRP:            "dBm",
	StageDownlinkPathLoss:        "dB",
	StageRequiredEbNo:            "dB",
	StageReceivedPower:           "dBm",
	StageMinimumDetectableSignal: "dBm",
	StageEnergyNoiseRatio:        "dB",
	StageLinkMargin:              "dB",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Unit is the unit symbol of the value reported for the stage.
func (s Stage) Unit() string {
	if s < 0 || int(s) >= len(stageUnits) {
		return ""
	}
	return stageUnits[s]
}

// StageObserver is told about every intermediate value as Run computes it.
type StageObserver interface {
	ObserveStage(stage Stage, value float64)
}

// StageObserverFunc adapts a function to StageObserver.
type StageObserverFunc func(stage Stage, value float64)

func (f StageObserverFunc) ObserveStage(stage Stage, value float64) { f(stage, value) }
