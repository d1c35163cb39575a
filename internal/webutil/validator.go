package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":       "名前",
	"term":       "単語",
	"definition": "意味",
	"prompt":     "問題文",
	"text":       "選択肢",
	"options":    "選択肢一覧",
	"quality":    "回答品質",
	"elapsed_ms": "回答時間",
	"event_id":   "イベントID",
}

func init() {
	Validator = validator.New()

	// JSON (なければ yaml) タグからフィールド名を取得する
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("yaml")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation("required", "{0}は必須項目です。", false)
	// min/max は文字列なら文字数、数値なら値の範囲としてメッセージを出し分ける
	registerTranslation("min", "{0}は{1}文字以上で入力してください。", true)
	registerTranslation("max", "{0}は{1}文字以下で入力してください。", true)
	addMessage("min_number", "{0}は{1}以上の値にしてください。")
	addMessage("max_number", "{0}は{1}以下の値にしてください。")
}

func translatedField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func addMessage(key, msg string) {
	if err := Trans.Add(key, msg, true); err != nil {
		log.Fatal(err)
	}
}

func registerTranslation(tag, msg string, withParam bool) {
	err := Validator.RegisterTranslation(tag, Trans, func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		if !withParam {
			s, _ := t.T(tag, translatedField(fe))
			return s
		}
		key := tag
		switch fe.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			key = tag + "_number"
		}
		s, _ := t.T(key, translatedField(fe), fe.Param())
		return s
	})
	if err != nil {
		log.Fatal(err)
	}
}
