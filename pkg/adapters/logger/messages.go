package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session level messages (info)
		"Playing %s (%d frames, %s per loop)...": "%s を再生中 (%d フレーム, 1 ループ %s)...",
		"Playback finished after %s":             "再生が %s で終了しました",
		"Playback stopped: %s":                   "再生を停止しました: %s",
		"Reloaded %s: %d frames":                 "%s を再読み込みしました: %d フレーム",
		"Watching %s for changes":                "%s の変更を監視しています",
		"Contact sheet saved to %s":              "コンタクトシートを %s に保存しました",
		"Summary saved to %s":                    "サマリーを %s に保存しました",
		"Interrupted, shutting down...":          "中断されました。シャットダウン中...",

		// Decoder
		"Decoding %s: %d sub-images, %dx%d": "%s をデコード中: %d サブイメージ, %dx%d",
		"Decoded %d of %d frames":           "%d / %d フレームをデコードしました",
		"Frame %d delay throttled to %s":    "フレーム %d の遅延を %s に制限しました",

		// Player
		"Configured %d frames":            "%d フレームを設定しました",
		"Playback started":                "再生を開始しました",
		"Playback stopped at frame %d":    "フレーム %d で再生を停止しました",
		"Playback paused at frame %d":     "フレーム %d で再生を一時停止しました",
		"Playback resumed at frame %d":    "フレーム %d から再生を再開しました",
		"Advanced to frame %d":            "フレーム %d に進みました",
		"Reached last frame %d, stopping": "最終フレーム %d に到達したため停止します",
		"Cleared":                         "クリアしました",
		"Attached to clock":               "クロックに接続しました",
		"Detached from clock":             "クロックから切断しました",
		"Displayed frame %d (%s)":         "フレーム %d を表示 (%s)",
		"Display cleared":                 "表示をクリアしました",
		"Wrote frame snapshot %s":         "フレームのスナップショット %s を書き込みました",

		// Contact sheet
		"Rendering sheet of %d frames with %d workers": "%d フレームのシートを %d ワーカーで描画中",

		// Watcher
		"Source changed: %s": "ソースが変更されました: %s",

		// Warnings
		"Skipping frame %d of %s: %s":               "%s のフレーム %d をスキップします: %s",
		"Reload failed, keeping current frames: %s": "再読み込みに失敗したため現在のフレームを維持します: %s",
		"Cannot write frame snapshot: %s":           "フレームのスナップショットを書き込めません: %s",
		"Dropped clock tick: run loop busy":         "実行ループが混雑しているためティックを破棄しました",

		// Errors
		"Cannot read %s: %s":          "%s を読み込めません: %s",
		"Failed to decode %s: %s":     "%s のデコードに失敗しました: %s",
		"Failed to write output: %s":  "出力の書き込みに失敗しました: %s",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",
		"Watcher error: %s":           "監視エラー: %s",
	})
}
