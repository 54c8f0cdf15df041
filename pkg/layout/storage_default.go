//go:build !android

package layout

// ensureStorageDir 非 Android 平台上 gdata 会自行创建目录
func ensureStorageDir() error {
	return nil
}

// storagePath 非 Android 平台由 gdata 决定，返回空字符串
func storagePath() string {
	return ""
}
