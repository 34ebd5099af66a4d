// Package regpipe は、番号付きフォルダごとにデータセットCSVを読み込み、
// 1つの特徴量列に対して各ターゲット列の単回帰(OLS)を行うバッチパイプラインです。
//
// 各フォルダ・データセットの組について、ターゲットごとのモデルファイル、
// 散布図と回帰直線のPNG、そしてMSEとR-squaredの結果表を書き出します。
// その後、全フォルダの結果表をラベルごとに結合し、フォルダ番号に沿った
// MSE/R-squaredの推移チャートを描画します。
//
// # Packages
//
//   - table: CSV loading on gota dataframes and the results table format
//   - linear, metrics, preprocessing: OLS, regression metrics, z-score scaling and moving averages
//   - pipeline: the runner, aggregator, combiner, normalizer and moving-average stages
//   - artifact, chart, report: model files, PNG charts, Markdown/HTML summary and xlsx workbook
//   - config: viper-backed options with validation
//   - pkg/errors, pkg/log: typed recoverable input errors and structured logging
//
// # Quick Start
//
//	regpipe config init
//	regpipe run --base-dir ./data
//
// Missing or malformed inputs are logged and skipped; the run continues and
// exits with status 2. Any write failure aborts the run with status 1.
package regpipe
