package device

var neiryChannels = []string{"O1", "T3", "T4", "O2"}

// Neiry decodes the four-channel occipital/temporal headset. Its recorder
// emits either the electrode names or a generic channel_0..channel_3 header.
type Neiry struct{}

func (Neiry) Name() string { return "neiry" }

func (Neiry) Channels() []string {
	return append([]string(nil), neiryChannels...)
}

func (Neiry) AreHeadersCorrect(header []string) bool {
	return headerMatches(header, neiryChannels) ||
		headerMatches(header, genericChannels(len(neiryChannels)))
}

func (Neiry) ReadValues(row []string) (Sample, error) {
	return decodeRow(row, neiryChannels)
}
