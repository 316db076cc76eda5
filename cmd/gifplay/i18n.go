// Package main provides localization for the gifplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI output.
	l10n.Register("ja", l10n.LexiconMap{
		// Info command
		"%s: %dx%d, %d sub-images, %d frames": "%s: %dx%d, %d サブイメージ, %d フレーム",
		"Repeat: %s":                          "繰り返し: %s",
		"Total: %d ms":                        "合計: %d ms",
		"Skipped sub-images: %v":              "スキップしたサブイメージ: %v",
		"Throttled delays: %d":                "制限した遅延: %d",

		// Version command
		"gifplay version %s": "gifplay バージョン %s",

		// Summary content
		"Playback Summary": "再生サマリー",
		"Source":           "ソース",
		"Timeline":         "タイムライン",
		"Playback":         "再生",
		"Settings":         "設定",
		"Generated at":     "生成日時",

		// Source section
		"File":             "ファイル",
		"File Size":        "ファイルサイズ",
		"Screen":           "画面サイズ",
		"Repeat":           "繰り返し",
		"Sub-images":       "サブイメージ数",
		"Frames":           "フレーム数",
		"Skipped":          "スキップ",
		"Throttled Delays": "制限した遅延",
		"forever":          "無限",
		"once":             "1 回",
		"%d times":         "%d 回",

		// Timeline section
		"Starts At": "開始位置",
		"Duration":  "表示時間",

		// Playback section
		"Result":           "結果",
		"Elapsed":          "経過時間",
		"Loop Duration":    "1 ループの長さ",
		"Images Displayed": "表示した画像数",
		"Last Frame":       "最終フレーム",
		"Reloads":          "再読み込み回数",
		"none":             "なし",
		"finished":         "完了",
		"cancelled":        "中断",
		"max-duration":     "最大時間に到達",
		"empty":            "フレームなし",

		// Settings section
		"Loop":            "ループ",
		"Clock Rate":      "クロックレート",
		"Keep Last Frame": "最終フレームを保持",
		"Max Duration":    "最大時間",
		"Outro":           "アウトロ",
		"Watch":           "監視",
		"Output":          "出力先",
		"yes":             "はい",
		"no":              "いいえ",
	})
}
