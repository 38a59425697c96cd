package device

var emotivChannels = []string{
	"F3", "FC5", "AF3", "F7", "T7", "P7", "O1",
	"O2", "P8", "T8", "F8", "AF4", "FC6", "F4",
}

// Emotiv decodes the fourteen-channel headset. Only the exact electrode
// order is accepted.
type Emotiv struct{}

func (Emotiv) Name() string { return "emotiv" }

func (Emotiv) Channels() []string {
	return append([]string(nil), emotivChannels...)
}

func (Emotiv) AreHeadersCorrect(header []string) bool {
	return headerMatches(header, emotivChannels)
}

func (Emotiv) ReadValues(row []string) (Sample, error) {
	return decodeRow(row, emotivChannels)
}
