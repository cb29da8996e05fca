package qbittorrent

import "fmt"

// TransferLimits holds the global transfer rate limits in bytes per
// second. Zero means the corresponding direction is unlimited, matching
// the qBittorrent wire value.
type TransferLimits struct {
	Upload   int64
	Download int64
}

// IsUnlimited reports whether neither direction is capped.
func (l TransferLimits) IsUnlimited() bool {
	return l.Upload == 0 && l.Download == 0
}

func (l TransferLimits) String() string {
	return fmt.Sprintf("up=%s down=%s", FormatRate(l.Upload), FormatRate(l.Download))
}

// TransferSnapshot pairs the current limits with live transfer state.
type TransferSnapshot struct {
	Limits           TransferLimits
	UploadSpeed      int64
	DownloadSpeed    int64
	DHTNodes         int64
	ConnectionStatus string
}

// TorrentActivity describes a torrent contributing transfer traffic.
type TorrentActivity struct {
	Hash          string
	Name          string
	State         string
	Category      string
	UploadSpeed   int64
	DownloadSpeed int64
}

// FormatRate renders a rate in bytes per second for logs, using binary
// units to match how the caps are configured. Zero renders as unlimited.
func FormatRate(bytesPerSecond int64) string {
	switch {
	case bytesPerSecond <= 0:
		return "unlimited"
	case bytesPerSecond < 1024:
		return fmt.Sprintf("%d B/s", bytesPerSecond)
	case bytesPerSecond < 1024*1024:
		return fmt.Sprintf("%.1f KiB/s", float64(bytesPerSecond)/1024)
	default:
		return fmt.Sprintf("%.1f MiB/s", float64(bytesPerSecond)/(1024*1024))
	}
}
